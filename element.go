package htmlsafe

import "golang.org/x/net/html"

func (self *Policy) allowElement(name string) {
	if _, ok := self.elements[name]; !ok {
		self.elements[name] = &element{}
	}
}

func (self *Policy) appendElement(name, attr string, ap *attrPolicy) {
	el, ok := self.elements[name]
	if !ok {
		el = &element{}
		self.elements[name] = el
	}
	el.Append(attr, ap)
}

func (self *Policy) deleteElementAttrs(name string, attrs ...string) {
	el, ok := self.elements[name]
	if !ok {
		return
	}
	for _, attr := range attrs {
		el.Delete(attr)
	}
}

func (self *Policy) policies(name string) *element {
	return self.elements[name]
}

func (self *Policy) allowedElement(name string) bool {
	_, ok := self.elements[name]
	return ok
}

// element holds the attribute policies of one allowed HTML element. A nil or
// empty attrs map means the element is allowed but carries no attributes of
// its own beyond the global set.
type element struct {
	attrs map[string][]*attrPolicy
}

func (self *element) Append(name string, ap *attrPolicy) {
	if self.attrs == nil {
		self.attrs = map[string][]*attrPolicy{name: {ap}}
		return
	}
	self.attrs[name] = append(self.attrs[name], ap)
}

func (self *element) Delete(name string) { delete(self.attrs, name) }

func (self *element) Match(attr html.Attribute) bool {
	if self.attrs == nil {
		return false
	}

	for _, ap := range self.attrs[attr.Key] {
		if ap.Match(attr.Val) {
			return true
		}
	}
	return false
}
