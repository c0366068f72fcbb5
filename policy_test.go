package htmlsafe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrCaseFolding(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("HREF").OnElements("A")

	assert.Equal(t, `<a href="/x">y</a>`, p.Sanitize(`<A HREF="/x">y</A>`))
}

func TestGlobalAttrs(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p", "span")
	p.AllowAttrs("title").Matching(Paragraph).Globally()

	assert.Equal(t, `<p title="note">x</p>`, p.Sanitize(`<p title="note">x</p>`))
	assert.Equal(t, `<span title="note">x</span>`,
		p.Sanitize(`<span title="note">x</span>`))

	// A value failing the pattern is dropped.
	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<p title="a>b">x</p>`))
}

func TestMatching(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("width").Matching(Integer).OnElements("hr")

	assert.Equal(t, `<hr width="50">`, p.Sanitize(`<hr width="50">`))
	assert.Equal(t, `<hr>`, p.Sanitize(`<hr width="fifty">`))
}

func TestDeleteFromElements(t *testing.T) {
	p := FragmentPolicy()
	p.AllowAttrs("href").DeleteFromElements("a")

	assert.Equal(t, `<a>y</a>`, p.Sanitize(`<a href="http://x.com/">y</a>`))
}

func TestDeleteFromGlobally(t *testing.T) {
	p := NewPolicy().AllowElements("p")
	p.AllowAttrs("title").Matching(Paragraph).Globally()

	assert.Equal(t, `<p title="n">x</p>`, p.Sanitize(`<p title="n">x</p>`))

	p.AllowAttrs("title").DeleteFromGlobally()
	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<p title="n">x</p>`))
}

func TestAllowURLScheme(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("href").OnElements("a")
	p.DenyURLSchemes("ftp:")
	p.AllowURLScheme("ftp", func(value string) bool {
		return strings.HasPrefix(value, "ftp://mirror.example.org/")
	})

	input := `<a href="ftp://mirror.example.org/a.tgz">m</a>`
	assert.Equal(t, input, p.Sanitize(input))
	assert.Equal(t, `<a>m</a>`,
		p.Sanitize(`<a href="ftp://other.example.com/a.tgz">m</a>`))
}

func TestRequireRelOnLinks(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)

	assert.Equal(t, `<a href="/x" rel="nofollow">y</a>`,
		p.Sanitize(`<a href="/x">y</a>`))

	p.RequireNoOpenerOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	assert.Equal(t, `<a href="/x" rel="nofollow noopener noreferrer">y</a>`,
		p.Sanitize(`<a href="/x">y</a>`))

	p.RequireNoFollowOnLinks(false)
	p.RequireNoOpenerOnLinks(false)
	p.RequireNoReferrerOnLinks(false)
	assert.Equal(t, `<a href="/x">y</a>`, p.Sanitize(`<a href="/x">y</a>`))

	// area and link elements carry the forced rel too.
	p2 := NewPolicy().RequireNoFollowOnLinks(true)
	p2.AllowAttrs("href").OnElements("area")
	assert.Equal(t, `<area href="/x" rel="nofollow">`,
		p2.Sanitize(`<area href="/x">`))
}

func TestZeroValuePolicy(t *testing.T) {
	var p Policy
	assert.Equal(t, `x`, p.Sanitize(`<b>x</b>`))

	var p2 Policy
	p2.AllowElements("b")
	assert.Equal(t, `<b>x</b>`, p2.Sanitize(`<b>x</b>`))

	// The scheme deny list is installed by init even on a zero value.
	var p3 Policy
	p3.AllowAttrs("href").OnElements("a")
	assert.Equal(t, `<a>x</a>`, p3.Sanitize(`<a href="javascript:alert(1)">x</a>`))
}

func TestDataAttributeNames(t *testing.T) {
	assert.True(t, dataAttribute("data-ok"))
	assert.True(t, dataAttribute("data-a-b"))
	assert.False(t, dataAttribute("data-xml-x"))
	assert.False(t, dataAttribute("datax"))
	assert.False(t, dataAttribute("data-a;b"))
}

func TestURLForComparison(t *testing.T) {
	assert.Equal(t, "javascript:alert(1)",
		urlForComparison(" JAVASCRIPT:alert(1)"))
	assert.Equal(t, "javascript:alert(1)",
		urlForComparison("jav\tascript:alert(1)"))
	assert.Equal(t, "http://x", urlForComparison("http://x"))
}
