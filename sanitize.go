// Copyright (c) 2014, David Kitchen <david@buro9.com>
//
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice, this
//   list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright notice,
//   this list of conditions and the following disclaimer in the documentation
//   and/or other materials provided with the distribution.
//
// * Neither the name of the organisation (Microcosm) nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package htmlsafe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const genericErrMsg = "htmlsafe: %w"

var (
	// Attribute keys arrive lower cased from the tokenizer, so this matches
	// every inline event handler (onclick, onerror, ...).
	eventHandlerAttr = regexp.MustCompile(`^on[a-z]+$`)

	dataInvalidChars = regexp.MustCompile("[A-Z;]+")
)

// Sanitize takes a string that contains an HTML fragment or document and
// applies the policy allow list.
//
// It returns an HTML string that has been sanitized by the policy or an
// empty string if an error has occurred (most likely as a consequence of
// extremely malformed input).
func (self *Policy) Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return self.sanitizeWithBuff(strings.NewReader(s)).String()
}

// SanitizeBytes takes a []byte that contains an HTML fragment or document
// and applies the policy allow list.
//
// It returns a []byte containing the HTML that has been sanitized by the
// policy or an empty []byte if an error has occurred (most likely as a
// consequence of extremely malformed input).
func (self *Policy) SanitizeBytes(b []byte) []byte {
	if len(bytes.TrimSpace(b)) == 0 {
		return b
	}
	return self.sanitizeWithBuff(bytes.NewReader(b)).Bytes()
}

// SanitizeReader takes an io.Reader that contains an HTML fragment or
// document and applies the policy allow list.
//
// It returns a bytes.Buffer containing the HTML that has been sanitized by
// the policy. Errors during sanitization merely return an empty result.
func (self *Policy) SanitizeReader(r io.Reader) *bytes.Buffer {
	return self.sanitizeWithBuff(r)
}

// SanitizeReaderToWriter takes an io.Reader that contains an HTML fragment
// or document, applies the policy allow list and writes the result to the
// provided writer, returning an error if there is one.
func (self *Policy) SanitizeReaderToWriter(r io.Reader, w io.Writer) error {
	return self.sanitize(r, w)
}

func (self *Policy) sanitizeWithBuff(r io.Reader) *bytes.Buffer {
	buff := new(bytes.Buffer)
	if err := self.sanitize(r, buff); err != nil {
		return new(bytes.Buffer)
	}
	return buff
}

type stringWriter struct {
	io.Writer
}

var _ io.StringWriter = (*stringWriter)(nil)

func (a *stringWriter) WriteString(s string) (int, error) {
	return a.Write([]byte(s)) //nolint:wrapcheck // call forwarder
}

// sanitize performs the actual sanitization process.
func (self *Policy) sanitize(r io.Reader, w io.Writer) error {
	// It is possible that the developer has created the policy via:
	//   p := htmlsafe.Policy{}
	// rather than:
	//   p := htmlsafe.NewPolicy()
	// If this is the case, and if they haven't yet triggered an action that
	// would initialize the maps, then we need to do that.
	self.init()

	buff, ok := w.(io.StringWriter)
	if !ok {
		buff = &stringWriter{w}
	}

	// skipping counts open elements whose content is being dropped, and
	// lastStarted names the most recently emitted element so raw text inside
	// an allowed script or style is recognized.
	var (
		skipping    int
		lastStarted string
	)

	tokenizer := newTokenizer(r)
	for {
		t, err := nextToken(tokenizer)
		if err != nil || t == nil {
			return err
		}

		switch t.Type {
		case html.DoctypeToken:

			// The doctype is dropped. There is no safe way to pass its
			// content through without trusting it.

		case html.CommentToken:
			if skipping > 0 {
				continue
			}
			if err := self.commentToken(t, buff); err != nil {
				return err
			}

		case html.StartTagToken:

			var el *element
			if self.safeAtom(t.DataAtom) {
				el = self.policies(t.Data)
			}
			if el != nil {
				lastStarted = t.Data
				self.sanitizeAttrs(t, el)
				if skipping > 0 {
					continue
				}
				if _, err := buff.WriteString(t.String()); err != nil {
					return fmt.Errorf(genericErrMsg, err)
				}
				continue
			}

			if skipping == 0 {
				if err := self.maybeAddSpaces(buff); err != nil {
					return err
				}
			}
			if _, ok := self.skipContent[t.Data]; ok {
				skipping++
			}

		case html.EndTagToken:

			if lastStarted == t.Data {
				lastStarted = ""
			}

			if self.safeAtom(t.DataAtom) && self.allowedElement(t.Data) {
				if skipping > 0 {
					continue
				}
				if _, err := buff.WriteString(t.String()); err != nil {
					return fmt.Errorf(genericErrMsg, err)
				}
				continue
			}

			if _, ok := self.skipContent[t.Data]; ok && skipping > 0 {
				skipping--
			}
			if skipping == 0 {
				if err := self.maybeAddSpaces(buff); err != nil {
					return err
				}
			}

		case html.SelfClosingTagToken:

			var el *element
			if self.safeAtom(t.DataAtom) {
				el = self.policies(t.Data)
			}
			if el == nil {
				if skipping == 0 {
					if err := self.maybeAddSpaces(buff); err != nil {
						return err
					}
				}
				continue
			}

			self.sanitizeAttrs(t, el)
			if skipping > 0 {
				continue
			}
			if _, err := buff.WriteString(t.String()); err != nil {
				return fmt.Errorf(genericErrMsg, err)
			}

		case html.TextToken:
			if skipping > 0 {
				continue
			}
			if err := self.textToken(t, buff, lastStarted); err != nil {
				return err
			}
		}
	}
}

func nextToken(t *tokenizer) (*token, error) {
	if t.Next() != html.ErrorToken {
		return t.Token(), nil
	}

	err := t.Err()
	if errors.Is(err, io.EOF) {
		// End of input means end of processing
		return nil, nil
	}
	// Raw tokenizer error
	return nil, fmt.Errorf(genericErrMsg, err)
}

func (self *Policy) commentToken(t *token, w io.StringWriter) error {
	// Comments are ignored by default
	if !self.comments {
		return nil
	}

	// But if allowed then write the comment out as-is
	if _, err := w.WriteString(t.String()); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}

func (self *Policy) maybeAddSpaces(buff io.StringWriter) error {
	if !self.addSpaces {
		return nil
	}

	if _, err := buff.WriteString(" "); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}

func (self *Policy) safeAtom(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style:
		return self.unsafe
	}
	return true
}

// sanitizeAttrs rebuilds the token's attributes, keeping only those the
// element or global policies admit, then applies forced attributes, the URL
// deny list and any required rel values.
func (self *Policy) sanitizeAttrs(t *token, el *element) {
	attrs := t.Reset()
	if len(attrs) == 0 {
		return
	}

	// Builds a new attribute slice based on whether the attribute has been
	// allowed explicitly or globally.
	self.appendAttrs(t, attrs, el)

	if attrs, ok := self.setAttrs[t.Data]; ok {
		t.SetAttrs(attrs)
	}

	if len(t.Attr) == 0 {
		// If nothing was allowed, let's get out of here
		return
	}
	// t.Attr now contains the attributes that are permitted

	self.sanitizeURLAttrs(t)
	self.forceRelAttr(t)
}

func (self *Policy) appendAttrs(t *token, attrs []html.Attribute, el *element) {
	for _, attr := range attrs {
		switch {
		case t.Ref(attr.Key) != nil:
			// Browsers honor the first occurrence of a duplicated
			// attribute key; later occurrences are dropped, so every
			// retained key holds exactly one value.
		case !self.unsafe && eventHandlerAttr.MatchString(attr.Key):
			// Inline event handlers never pass, even when a policy
			// declares them.
		case self.matchDataAttribute(t, attr):
		case self.matchStylePolicy(t, attr):
		default:
			self.matchPolicy(t, attr, el)
		}
	}
}

func (self *Policy) matchDataAttribute(t *token, attr html.Attribute) bool {
	if !self.dataAttributes || !dataAttribute(attr.Key) {
		return false
	}
	// If we see a data attribute, let it through.
	t.Append(attr)
	return true
}

func dataAttribute(key string) bool {
	rest, ok := strings.CutPrefix(key, "data-")
	if !ok {
		return false
	}

	// data-xml* is reserved.
	if strings.HasPrefix(rest, "xml") {
		return false
	}

	// No uppercase or semicolons allowed.
	return !dataInvalidChars.MatchString(rest)
}

func (self *Policy) matchStylePolicy(t *token, attr html.Attribute) bool {
	switch {
	case attr.Key != "style":
		return false
	case self.styleHandler != nil:
		attr.Val = self.styleHandler(t.Data, attr.Val)
	case self.hasStylePolicies(t.Data):
		self.sanitizeStyles(&attr, t.Data)
	default:
		return false
	}

	if attr.Val != "" {
		t.Append(attr)
	}

	// We've sanitized away any and all styles; don't bother to output the
	// style attribute (even if it's allowed)
	return true
}

func (self *Policy) matchPolicy(t *token, attr html.Attribute, el *element,
) bool {
	// Is there an element specific attribute policy that applies?
	if el.Match(attr) {
		t.Append(attr)
		return true
	}

	// Is there a global attribute policy that applies?
	for _, ap := range self.globalAttrs[attr.Key] {
		if ap.Match(attr.Val) {
			t.Append(attr)
			return true
		}
	}
	return false
}

// forceRelAttr merges the required rel values into linking elements that
// kept an href after the URL check. Forced values merge with a retained rel
// attribute instead of doubling it.
func (self *Policy) forceRelAttr(t *token) {
	if !self.relNoFollow && !self.relNoOpener && !self.relNoReferrer {
		return
	}

	switch t.DataAtom {
	case atom.A, atom.Area, atom.Link:
	default:
		return
	}

	if t.Ref("href") == nil {
		return
	}
	self.setRelAttr(t, self.relNoFollow, self.relNoOpener, self.relNoReferrer)
}

func (self *Policy) setRelAttr(t *token, nofollow, noopener, noreferrer bool) {
	value := func() string {
		values := make([]string, 0, 3)
		if nofollow {
			values = append(values, "nofollow")
		}
		if noopener {
			values = append(values, "noopener")
		}
		if noreferrer {
			values = append(values, "noreferrer")
		}
		return strings.Join(values, " ")
	}

	const rel = "rel"
	attr := t.Ref(rel)
	if attr == nil {
		t.Append(html.Attribute{Key: rel, Val: value()})
		return
	} else if attr.Val == "" {
		attr.Val = value()
		return
	}

	for _, s := range strings.Fields(attr.Val) {
		switch s {
		case "nofollow":
			nofollow = false
		case "noopener":
			noopener = false
		case "noreferrer":
			noreferrer = false
		}
	}
	if !nofollow && !noopener && !noreferrer {
		return
	}
	attr.Val += " " + value()
}

func (self *Policy) textToken(t *token, w io.StringWriter, parent string,
) error {
	switch parent {
	case "script", "style":
		// Raw text of an emitted script or style element, which requires
		// AllowUnsafe, must not be HTML escaped as that would break it.
		if _, err := w.WriteString(t.Data); err != nil {
			return fmt.Errorf(genericErrMsg, err)
		}
		return nil
	}

	// HTML escape the text
	if _, err := w.WriteString(t.String()); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}
