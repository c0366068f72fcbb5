package htmlsafe

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// token wraps html.Token with an index of retained attribute keys, so the
// sanitizer can address attributes by name without rescanning the slice. The
// index only covers attributes added through Append or Set; raw attributes
// read from the tokenizer are handed out by Reset before filtering starts.
type token struct {
	html.Token

	index map[string]int
}

func (self *token) Append(attr html.Attribute) *html.Attribute {
	i := len(self.Attr)
	self.index[attr.Key] = i
	self.Attr = append(self.Attr, attr)
	return &self.Attr[i]
}

func (self *token) Delete(key string) {
	i, ok := self.index[key]
	if !ok {
		return
	}

	self.Attr = slices.Delete(self.Attr, i, i+1)
	delete(self.index, key)

	for ; i < len(self.Attr); i++ {
		key := self.Attr[i].Key
		if _, ok := self.index[key]; ok {
			self.index[key]--
		}
	}
}

func (self *token) Ref(key string) *html.Attribute {
	if i, ok := self.index[key]; ok {
		return &self.Attr[i]
	}
	return nil
}

func (self *token) Reset() []html.Attribute {
	attrs := self.Attr
	self.Attr = self.Attr[:0]
	clear(self.index)
	return attrs
}

func (self *token) Set(key, val string) {
	if i, ok := self.index[key]; ok {
		self.Attr[i].Val = val
		return
	}
	self.Append(html.Attribute{Key: key, Val: val})
}

func (self *token) SetAttrs(attrs []html.Attribute) {
	for _, attr := range attrs {
		self.Set(attr.Key, attr.Val)
	}
}

// String renders the token in normalized form: tags are lower case, attribute
// values are double quoted with reserved characters entity escaped, and text
// is fully escaped via the same table as [Escape].
func (self *token) String() string {
	switch self.Type {
	case html.TextToken:
		return Escape(self.Data)
	case html.StartTagToken:
		return self.tagString(false)
	case html.SelfClosingTagToken:
		return self.tagString(true)
	case html.EndTagToken:
		return "</" + self.Data + ">"
	case html.CommentToken:
		return "<!--" + self.Data + "-->"
	}
	return ""
}

func (self *token) tagString(selfClosing bool) string {
	var b strings.Builder
	b.Grow(len(self.Data) + 16*len(self.Attr) + 3)

	b.WriteByte('<')
	b.WriteString(self.Data)
	for i := range self.Attr {
		attr := &self.Attr[i]
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		escapeTo(&b, attr.Val)
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteByte('/')
	}
	b.WriteByte('>')
	return b.String()
}
