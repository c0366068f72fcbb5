package htmlsafe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylesOnElements(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p", "span")
	p.AllowStyles("text-align").MatchingEnum("left", "right", "center").
		OnElements("p")

	assert.Equal(t, `<p style="text-align: center">x</p>`,
		p.Sanitize(`<p style="text-align: center">x</p>`))

	// Enum matching is case insensitive and keeps the author's spelling.
	assert.Equal(t, `<p style="text-align: CENTER">x</p>`,
		p.Sanitize(`<p style="text-align: CENTER">x</p>`))

	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<p style="text-align: 33px">x</p>`))
	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<p style="">x</p>`))
	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<p style="color">x</p>`))

	// No style policy covers span, so the attribute is dropped entirely.
	assert.Equal(t, `<span>x</span>`,
		p.Sanitize(`<span style="text-align: center">x</span>`))
}

func TestStylesGlobally(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p", "em")
	p.AllowStyles("color", "background-color").Matching(cssColor).Globally()

	assert.Equal(t, `<em style="color: red">x</em>`,
		p.Sanitize(`<em style="color: red">x</em>`))
	assert.Equal(t,
		`<p style="color: #ff0000; background-color: rgb(255, 0, 0)">x</p>`,
		p.Sanitize(
			`<p style="color: #ff0000; background-color: rgb(255, 0, 0)">x</p>`))
	assert.Equal(t, `<p>x</p>`,
		p.Sanitize(`<p style="color: url(javascript:alert(1))">x</p>`))
}

func TestStylesVendorPrefix(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p")
	p.AllowStyles("text-align").MatchingEnum("center").OnElements("p")

	// The prefix is stripped for matching but kept on output.
	assert.Equal(t, `<p style="-webkit-text-align: center">x</p>`,
		p.Sanitize(`<p style="-webkit-text-align: center">x</p>`))
}

func TestStylesUnicodeEscapes(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p")
	p.AllowStyles("text-align").MatchingEnum("center").OnElements("p")

	// \63 resolves to "c", so the escaped form still matches the enum.
	assert.Equal(t, `<p style="text-align: \63 enter">x</p>`,
		p.Sanitize(`<p style="text-align: \63 enter">x</p>`))
}

func TestStylesMatchingHandler(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p")
	p.AllowStyles("font-family").MatchingHandler(func(value string) bool {
		return !strings.Contains(value, "expression")
	}).OnElements("p")

	assert.Equal(t, `<p style="font-family: serif">x</p>`,
		p.Sanitize(`<p style="font-family: serif">x</p>`))
	assert.Equal(t, `<p>x</p>`,
		p.Sanitize(`<p style="font-family: expression(alert(1))">x</p>`))
}

func TestWithStyleHandler(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p", "span")
	p.WithStyleHandler(func(tag, style string) string {
		if tag == "p" {
			return "color: blue"
		}
		return ""
	})

	assert.Equal(t, `<p style="color: blue">x</p>`,
		p.Sanitize(`<p style="anything: goes">x</p>`))
	assert.Equal(t, `<span>x</span>`,
		p.Sanitize(`<span style="color: red">x</span>`))
}
