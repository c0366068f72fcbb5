package htmlsafe

import (
	"strings"

	"golang.org/x/net/html"
)

type Attribute struct {
	p    *Policy
	attr html.Attribute
}

// SetAttr says that an HTML attribute with the given name and value must be
// present on the element after sanitization. The attribute is forced when
// OnElements(...) is called: an existing retained value is overwritten,
// otherwise the attribute is appended.
func (p *Policy) SetAttr(name, value string) Attribute {
	p.init()
	return Attribute{
		p:    p,
		attr: html.Attribute{Key: strings.ToLower(name), Val: value},
	}
}

// OnElements will force the attribute on a given range of HTML elements and
// return the updated policy.
func (self Attribute) OnElements(elements ...string) *Policy {
	if self.attr.Key == "" {
		return self.p
	}

	for _, element := range elements {
		element = strings.ToLower(element)
		self.p.setAttrs[element] = append(self.p.setAttrs[element], self.attr)
	}
	return self.p
}
