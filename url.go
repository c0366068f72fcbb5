package htmlsafe

import "strings"

// defDenySchemes are the scheme prefixes every new policy rejects. The list
// is installed by init so even a zero value Policy fails closed.
var defDenySchemes = [...]string{"javascript:", "data:", "vbscript:"}

// urlAttrs are the attribute names whose values carry a URL and therefore go
// through the deny list, whatever element they appear on. srcset is handled
// separately because it holds several URLs per value.
var urlAttrs = [...]string{"action", "cite", "formaction", "href", "poster", "src"}

// sanitizeURLAttrs deletes every retained URL attribute whose value fails the
// deny list, then filters srcset candidates.
func (self *Policy) sanitizeURLAttrs(t *token) {
	for _, name := range urlAttrs {
		attr := t.Ref(name)
		if attr == nil {
			continue
		}
		if !self.validURL(attr.Val) {
			t.Delete(name)
		}
	}
	self.sanitizeSrcSet(t)
}

func (self *Policy) sanitizeSrcSet(t *token) {
	const srcset = "srcset"
	attr := t.Ref(srcset)
	if attr == nil {
		return
	}

	images := self.parseSrcSetAttribute(attr.Val)
	if len(images) == 0 {
		t.Delete(srcset)
		return
	}
	attr.Val = images.String()
}

// validURL reports whether a URL attribute value may be retained. The value
// is matched against the deny list prefixes after trimming whitespace,
// removing ASCII control characters and folding to lower case, so forms like
// " JaVaScRiPt:" or "jav\tascript:" are still caught. The tokenizer has
// decoded HTML entities by the time the value arrives here, which also
// defeats encoded schemes such as "&#106;avascript:".
//
// A matched prefix normally rejects the value. If AllowURLScheme registered
// validators for the scheme, the trimmed original value is offered to them
// and any accepting validator re-admits it.
func (self *Policy) validURL(value string) bool {
	url := urlForComparison(value)
	for _, scheme := range self.denySchemes {
		if !strings.HasPrefix(url, scheme) {
			continue
		}

		policies := self.urlSchemes[strings.TrimSuffix(scheme, ":")]
		value = strings.TrimSpace(value)
		for _, fn := range policies {
			if fn(value) {
				return true
			}
		}
		return false
	}
	return true
}

func urlForComparison(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, value)
	return strings.ToLower(value)
}
