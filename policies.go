package htmlsafe

// StrictPolicy returns an empty policy, which will effectively strip all HTML
// elements and their attributes from a document. Character data survives as
// escaped text.
func StrictPolicy() *Policy {
	return NewPolicy()
}

// FragmentPolicy returns a policy aimed at user generated content embedded
// into a trusted page: comments, forum posts, chat messages and rendered
// markdown.
//
// It allows the common formatting, link, image placeholder, list, table and
// sectioning elements. Links are forced to carry
// rel="noopener noreferrer" and dangerous URL schemes are rejected.
func FragmentPolicy() *Policy {
	p := NewPolicy()

	p.AllowStandardAttributes()
	p.AllowStyling()

	// "h1" through "h6", structural text
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6", "p", "br", "hr")

	// Inline formatting
	p.AllowElements(
		"b", "i", "em", "strong", "u", "s", "strike", "del", "ins", "mark",
		"small", "sub", "sup",
	)

	// "a" is permitted. href values go through the scheme deny list, target
	// is restricted to browsing context keywords and any author supplied rel
	// tokens are merged with the forced ones.
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").
		WithValues("_blank", "_self", "_parent", "_top").OnElements("a")
	p.AllowAttrs("rel").Matching(SpaceSeparatedTokens).OnElements("a")
	p.RequireNoOpenerOnLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// "img" is permitted with a conservative attribute set
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt", "title").Matching(Paragraph).OnElements("img")
	p.AllowAttrs("width", "height").Matching(NumberOrPercent).OnElements("img")
	p.AllowAttrs("loading").WithValues("eager", "lazy").OnElements("img")

	// Lists
	p.AllowLists()

	// Tables without the presentational attributes
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "caption")
	p.AllowAttrs("colspan", "rowspan").Matching(Integer).OnElements("td", "th")
	p.AllowAttrs("scope").
		WithValues("row", "col", "rowgroup", "colgroup").OnElements("th")

	// Code blocks
	p.AllowElements("code", "pre", "kbd", "samp", "var")

	// Quotations
	p.AllowElements("blockquote", "q", "cite")
	p.AllowAttrs("cite").OnElements("blockquote", "q", "del", "ins")
	p.AllowAttrs("datetime").Matching(ISO8601).OnElements("del", "ins", "time")

	// Sectioning and misc
	p.AllowElements(
		"div", "span", "section", "article", "header", "footer", "figure",
		"figcaption", "abbr", "address", "time",
	)

	// "details" "summary"
	p.AllowElements("summary")
	p.AllowAttrs("open").WithValues("", "open").OnElements("details")

	return p
}

// DocumentPolicy returns a policy for whole untrusted documents, such as
// HTML mail or scraped pages. It extends FragmentPolicy with images
// (including inline data URI images), rich table markup, data-* attributes
// and a small set of inline style properties. The character data of
// non-rendered containers such as script, style and title is dropped rather
// than escaped.
func DocumentPolicy() *Policy {
	p := FragmentPolicy()

	p.AllowImages()
	p.AllowDataURIImages()
	p.AllowTables()
	p.AllowDataAttributes()

	p.SkipElementsContent(defSkipContent[:]...)

	// Force lazy loading on every image that kept at least one attribute.
	p.SetAttr("loading", "lazy").OnElements("img")

	p.AllowStyles("text-align").
		MatchingEnum("left", "right", "center", "justify").Globally()
	p.AllowStyles("font-weight").
		MatchingEnum("bold", "bolder", "lighter", "normal").Globally()
	p.AllowStyles("font-style").
		MatchingEnum("italic", "normal", "oblique").Globally()
	p.AllowStyles("text-decoration").
		MatchingEnum("underline", "line-through", "none").Globally()
	p.AllowStyles("color", "background-color").Matching(cssColor).Globally()

	return p
}
