package htmlsafe

import "strings"

// htmlEscaper maps the five characters reserved by HTML to their entity
// forms, indexed by byte value.
var htmlEscaper = [256][]byte{
	'&':  []byte("&amp;"),
	'<':  []byte("&lt;"),
	'>':  []byte("&gt;"),
	'"':  []byte("&quot;"),
	'\'': []byte("&#039;"),
}

// Escape replaces every occurrence of the characters & < > " ' with its HTML
// entity and returns the result. All other bytes pass through unchanged, so
// multi-byte UTF-8 sequences are preserved as-is.
//
// Escape is not idempotent on text that already contains entities: escaping
// "&amp;" again yields "&amp;amp;" because the ampersand itself is escaped.
func Escape(s string) string {
	if strings.IndexAny(s, escapeChars) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	escapeTo(&b, s)
	return b.String()
}

const escapeChars = `&<>"'`

// escapeTo writes the escaped form of s to b, copying unescaped spans
// wholesale.
func escapeTo(b *strings.Builder, s string) {
	var start int
	for i := 0; i < len(s); i++ {
		esc := htmlEscaper[s[i]]
		if esc == nil {
			continue
		}
		b.WriteString(s[start:i])
		b.Write(esc)
		start = i + 1
	}
	b.WriteString(s[start:])
}
