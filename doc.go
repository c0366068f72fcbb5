/*
Package htmlsafe filters user supplied HTML through an allow list policy and
escapes plain text for safe embedding in HTML output.

The sanitizer walks the input with the golang.org/x/net/html tokenizer. Tags
whose element is not allowed by the policy are removed while their inner text
survives, entity escaped. Attributes on allowed elements are kept only when an
element specific or global attribute policy admits them, URL bearing attribute
values are checked against a scheme deny list, and retained values are
re-emitted double quoted with reserved characters escaped. Inline event
handler attributes are always removed.

The simplest use is the package level functions, which share one prebuilt
policy:

	safe := htmlsafe.Sanitize(`<a href="javascript:alert(1)">click</a>`)
	// safe == `<a>click</a>`

	label := htmlsafe.Escape(`5 < 6 & 7 > 4`)
	// label == `5 &lt; 6 &amp; 7 &gt; 4`

Richer control comes from building a Policy:

	p := htmlsafe.NewPolicy()
	p.AllowElements("b", "i", "p")
	p.AllowAttrs("href").OnElements("a")
	html := p.Sanitize(untrusted)

A Policy must be fully built before its first use. Once handed to Sanitize it
is read concurrently and must no longer be modified.

The scheme deny list rejects values whose trimmed, lower cased form starts
with javascript:, data: or vbscript:. Every policy carries this list, even a
blank one, so unsafe schemes are rejected by default. AllowURLScheme can
register a validator that re-admits selected values of a denied scheme, which
is how AllowDataURIImages permits inline base64 images.

The output is not rebalanced: unclosed or mismatched tags in the input stay
unclosed or mismatched in the output. Comments, doctypes and CDATA sections
are dropped unless comments are explicitly allowed.
*/
package htmlsafe
