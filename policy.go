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
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Policy encapsulates the allow list of HTML elements and attributes that
// will be applied to the sanitized HTML, together with the URL scheme deny
// list.
//
// You should use NewPolicy() to create a blank policy, as the unexported
// fields contain maps that need to be initialized.
type Policy struct {
	// Declares whether the maps have been initialized, used as a cheap check
	// to ensure that those using Policy{} directly won't cause nil pointer
	// exceptions.
	initialized bool

	// If true then a single space is written whenever a disallowed tag is
	// stripped, so adjacent words do not run together.
	addSpaces bool

	// When true, add rel="nofollow" to a, area and link tags that keep an
	// href attribute.
	relNoFollow bool

	// When true, add rel="noopener" to a, area and link tags that keep an
	// href attribute.
	relNoOpener bool

	// When true, add rel="noreferrer" to a, area and link tags that keep an
	// href attribute.
	relNoReferrer bool

	// When true, allow data attributes.
	dataAttributes bool

	// When true, allow comments.
	comments bool

	// When true, fundamentally unsafe elements and inline event handlers may
	// pass if a policy declares them.
	unsafe bool

	// map[htmlElementName]attribute policies for that element
	elements map[string]*element

	// map[htmlAttributeName]policies that apply on every allowed element
	globalAttrs map[string][]*attrPolicy

	// Lower cased scheme prefixes that URL attribute values must not start
	// with. Populated with defDenySchemes on init.
	denySchemes []string

	// map[scheme]validators that may re-admit values of a denied scheme
	urlSchemes map[string][]urlPolicy

	// map[htmlElementName]attributes forced onto the element after filtering
	setAttrs map[string][]html.Attribute

	// Elements whose inner content is dropped alongside the element when the
	// element itself is not allowed.
	skipContent map[string]struct{}

	// map[htmlElementName]map[cssPropertyName]style policies
	elsAndStyles map[string]map[string][]stylePolicy

	// map[cssPropertyName]style policies that apply on every element
	globalStyles map[string][]stylePolicy

	// If set, styleHandler replaces the built in style attribute
	// sanitization.
	styleHandler func(tag, style string) string
}

// urlPolicy validates the trimmed original value of a URL attribute whose
// scheme matched the deny list. Returning true re-admits the value.
type urlPolicy func(value string) bool

type attrPolicy struct {
	singleValue string
	values      map[string]struct{}

	// optional pattern to match, when not nil the regexp needs to match
	// otherwise the attribute is removed
	regexp *regexp.Regexp
}

func (self *attrPolicy) Match(value string) bool {
	matched := true
	if self.singleValue != "" {
		matched = false
		if strings.ToLower(value) == self.singleValue {
			return true
		}
	}

	if self.values != nil {
		matched = false
		v := strings.ToLower(value)
		if _, ok := self.values[v]; ok {
			return true
		}
	}

	if self.regexp != nil {
		matched = false
		if self.regexp.MatchString(value) {
			return true
		}
	}
	return matched
}

type AttrPolicyBuilder struct {
	p *Policy

	attrNames []string
	regexp    *regexp.Regexp
	values    []string
}

// init initializes the maps if this has not been done already.
func (p *Policy) init() {
	if p.initialized {
		return
	}

	p.elements = make(map[string]*element)
	p.globalAttrs = make(map[string][]*attrPolicy)
	p.urlSchemes = make(map[string][]urlPolicy)
	p.setAttrs = make(map[string][]html.Attribute)
	p.skipContent = make(map[string]struct{})
	p.elsAndStyles = make(map[string]map[string][]stylePolicy)
	p.globalStyles = make(map[string][]stylePolicy)
	p.denySchemes = slices.Clone(defDenySchemes[:])
	p.initialized = true
}

// NewPolicy returns a blank policy with nothing allowed. This is the
// recommended way to start building a policy; use AllowAttrs() and/or
// AllowElements() to construct the allow list of HTML elements and
// attributes. The URL scheme deny list is already in place on a blank policy.
func NewPolicy() *Policy {
	p := Policy{}
	p.init()
	return &p
}

// AllowAttrs takes a range of HTML attribute names and returns an attribute
// policy builder that allows you to specify the pattern and scope of the
// allowed attribute.
//
// The attribute policy is only added to the core policy when either
// Globally() or OnElements(...) are called.
func (p *Policy) AllowAttrs(attrNames ...string) *AttrPolicyBuilder {
	p.init()

	abp := AttrPolicyBuilder{p: p}
	for _, attrName := range attrNames {
		abp.attrNames = append(abp.attrNames, strings.ToLower(attrName))
	}
	return &abp
}

// Matching allows a regular expression to be applied to a nascent attribute
// policy, and returns the attribute policy.
func (abp *AttrPolicyBuilder) Matching(regex *regexp.Regexp) *AttrPolicyBuilder {
	abp.regexp = regex
	return abp
}

// WithValues allows given values and returns the attribute policy. Values
// compare case insensitively.
func (abp *AttrPolicyBuilder) WithValues(values ...string) *AttrPolicyBuilder {
	abp.values = values
	return abp
}

// OnElements will bind an attribute policy to a given range of HTML elements
// and return the updated policy. The elements become allowed if they were
// not already.
func (abp *AttrPolicyBuilder) OnElements(elements ...string) *Policy {
	for _, element := range elements {
		element = strings.ToLower(element)
		for _, attr := range abp.attrNames {
			abp.p.appendElement(element, attr, abp.attrPolicy())
		}
	}
	return abp.p
}

// DeleteFromElements will unbind an attribute policy, previously bound to a
// given range of HTML elements by OnElements, and return the updated policy.
func (abp *AttrPolicyBuilder) DeleteFromElements(elements ...string) *Policy {
	for _, element := range elements {
		abp.p.deleteElementAttrs(strings.ToLower(element), abp.attrNames...)
	}
	return abp.p
}

// Globally will bind an attribute policy to all allowed HTML elements and
// return the updated policy.
func (abp *AttrPolicyBuilder) Globally() *Policy {
	for _, attr := range abp.attrNames {
		abp.p.globalAttrs[attr] = append(abp.p.globalAttrs[attr],
			abp.attrPolicy())
	}
	return abp.p
}

// DeleteFromGlobally will unbind an attribute policy, previously bound by
// Globally, and return the updated policy.
func (abp *AttrPolicyBuilder) DeleteFromGlobally() *Policy {
	for _, attr := range abp.attrNames {
		delete(abp.p.globalAttrs, attr)
	}
	return abp.p
}

func (abp *AttrPolicyBuilder) attrPolicy() *attrPolicy {
	ap := attrPolicy{regexp: abp.regexp}
	// A lone empty value takes the map form; singleValue cannot represent
	// "only the empty value" because Match reads "" as unconstrained.
	if n := len(abp.values); n == 1 && abp.values[0] != "" {
		ap.singleValue = strings.ToLower(abp.values[0])
	} else if n > 0 {
		ap.values = make(map[string]struct{}, n)
		for _, v := range abp.values {
			ap.values[strings.ToLower(v)] = struct{}{}
		}
	}
	return &ap
}

// AllowElements will append HTML elements to the allow list without applying
// an attribute policy to those elements, so they are permitted with global
// attributes only.
func (p *Policy) AllowElements(names ...string) *Policy {
	p.init()
	for _, element := range names {
		p.allowElement(strings.ToLower(element))
	}
	return p
}

// AllowDataAttributes permits all data attributes. We can't specify the name
// of each attribute exactly as they are customized.
//
// NOTE: These values are not sanitized and applications that evaluate or
// process them without checking and verification of the input may be at risk
// if this option is enabled. This is a 'caveat emptor' option and the person
// enabling this option needs to fully understand the potential impact with
// regards to whatever application will be consuming the sanitized HTML
// afterwards, i.e. if you know you put a link in a data attribute and use
// that to automatically load some new window then you're giving the author
// of a HTML fragment the means to open a malicious destination automatically.
// Use with care!
func (p *Policy) AllowDataAttributes() *Policy {
	p.dataAttributes = true
	return p
}

// AllowComments allows comments.
//
// Please note that only the standard HTML comment <!-- --> is covered. CDATA
// sections are not handled by the golang.org/x/net/html tokenizer as XML and
// come through as plain comments, so with comments allowed a CDATA section
// is emitted as a standard HTML comment.
func (p *Policy) AllowComments() *Policy {
	p.comments = true
	return p
}

// DenyURLSchemes appends scheme prefixes to the URL deny list. Prefixes are
// compared against the trimmed, lower cased attribute value and should
// include the trailing colon, for example "ftp:". The default list rejecting
// javascript:, data: and vbscript: stays in place.
func (p *Policy) DenyURLSchemes(prefixes ...string) *Policy {
	p.init()
	for _, prefix := range prefixes {
		prefix = strings.ToLower(prefix)
		if !slices.Contains(p.denySchemes, prefix) {
			p.denySchemes = append(p.denySchemes, prefix)
		}
	}
	return p
}

// AllowURLScheme registers a validator that can re-admit URL attribute
// values of a denied scheme. The validator receives the trimmed original
// value, entities already decoded, and returns true to keep it. Several
// validators may be registered per scheme; any one accepting is enough.
//
// Registering a validator for a scheme that is not on the deny list has no
// effect, values of such schemes are allowed anyway.
func (p *Policy) AllowURLScheme(scheme string, validate urlPolicy) *Policy {
	p.init()
	scheme = strings.TrimSuffix(strings.ToLower(scheme), ":")
	p.urlSchemes[scheme] = append(p.urlSchemes[scheme], validate)
	return p
}

// RequireNoFollowOnLinks will result in all a, area and link tags that keep
// an href attribute having rel="nofollow" merged into them.
func (p *Policy) RequireNoFollowOnLinks(require bool) *Policy {
	p.relNoFollow = require
	return p
}

// RequireNoOpenerOnLinks will result in all a, area and link tags that keep
// an href attribute having rel="noopener" merged into them. This stops the
// linked page from reaching back through window.opener.
func (p *Policy) RequireNoOpenerOnLinks(require bool) *Policy {
	p.relNoOpener = require
	return p
}

// RequireNoReferrerOnLinks will result in all a, area and link tags that
// keep an href attribute having rel="noreferrer" merged into them.
func (p *Policy) RequireNoReferrerOnLinks(require bool) *Policy {
	p.relNoReferrer = require
	return p
}

// AddSpaceWhenStrippingTag states whether to add a single space " " when
// removing tags that are not allowed by the policy.
//
// This is useful if you expect to strip tags in dense markup and may lose the
// value of whitespace.
//
// For example: "<p>Hello</p><p>World</p>" would be sanitized to "HelloWorld"
// with the default value of false, but you may wish to sanitize this to
// " Hello  World " by setting AddSpaceWhenStrippingTag to true as this would
// retain the intent of the text.
func (p *Policy) AddSpaceWhenStrippingTag(allow bool) *Policy {
	p.addSpaces = allow
	return p
}

// SkipElementsContent adds HTML elements whose inner content is to be removed
// together with the element, when the element itself is not allowed. Without
// this the content of a stripped element survives as escaped text.
func (p *Policy) SkipElementsContent(names ...string) *Policy {
	p.init()
	for _, element := range names {
		p.skipContent[strings.ToLower(element)] = struct{}{}
	}
	return p
}

// AllowElementsContent marks the HTML elements whose content should be
// retained after removing the tag, undoing SkipElementsContent.
func (p *Policy) AllowElementsContent(names ...string) *Policy {
	p.init()
	for _, element := range names {
		delete(p.skipContent, strings.ToLower(element))
	}
	return p
}

// AllowUnsafe permits fundamentally unsafe constructs.
//
// If false (default) then the script and style elements are refused even
// when declared in a policy, and inline event handler attributes never pass.
// These constructs combined with untrusted input cannot be handled safely.
//
// If true then script, style and event handler attributes pass whenever a
// policy declares them. This is not recommended under any circumstance and
// can lead to XSS being rendered, defeating the purpose of sanitizing at
// all.
func (p *Policy) AllowUnsafe(allowUnsafe bool) *Policy {
	p.init()
	p.unsafe = allowUnsafe
	return p
}

// WithStyleHandler sets h as a custom sanitizer for inline styles and
// returns the updated policy.
//
// The custom sanitizer returns sanitized content of the given style
// attribute for the given tag. An empty return means the style attribute is
// dropped from that tag.
func (p *Policy) WithStyleHandler(h func(tag, style string) string) *Policy {
	p.styleHandler = h
	return p
}

type stylePolicy struct {
	handler func(string) bool
	enum    []string
	regexp  *regexp.Regexp
}

type StylePolicyBuilder struct {
	p *Policy

	propertyNames []string
	regexp        *regexp.Regexp
	enum          []string
	handler       func(string) bool
}

// AllowStyles takes a range of CSS property names and returns a style policy
// builder that allows you to specify the pattern and scope of the allowed
// property.
//
// The style policy is only added to the core policy when either Globally()
// or OnElements(...) are called.
func (p *Policy) AllowStyles(propertyNames ...string) *StylePolicyBuilder {
	p.init()

	spb := StylePolicyBuilder{p: p}
	for _, name := range propertyNames {
		spb.propertyNames = append(spb.propertyNames, strings.ToLower(name))
	}
	return &spb
}

// Matching allows a regular expression to be applied to a nascent style
// policy, and returns the style policy.
func (spb *StylePolicyBuilder) Matching(regex *regexp.Regexp) *StylePolicyBuilder {
	spb.regexp = regex
	return spb
}

// MatchingEnum allows a list of allowed values to be applied to a nascent
// style policy, and returns the style policy.
func (spb *StylePolicyBuilder) MatchingEnum(enum ...string) *StylePolicyBuilder {
	spb.enum = enum
	return spb
}

// MatchingHandler allows a handler to be applied to a nascent style policy,
// and returns the style policy.
func (spb *StylePolicyBuilder) MatchingHandler(handler func(string) bool) *StylePolicyBuilder {
	spb.handler = handler
	return spb
}

// OnElements will bind a style policy to a given range of HTML elements and
// return the updated policy.
func (spb *StylePolicyBuilder) OnElements(elements ...string) *Policy {
	for _, element := range elements {
		element = strings.ToLower(element)
		if spb.p.elsAndStyles[element] == nil {
			spb.p.elsAndStyles[element] = make(map[string][]stylePolicy)
		}
		for _, name := range spb.propertyNames {
			spb.p.elsAndStyles[element][name] = append(
				spb.p.elsAndStyles[element][name], spb.stylePolicy())
		}
	}
	return spb.p
}

// Globally will bind a style policy to all HTML elements and return the
// updated policy.
func (spb *StylePolicyBuilder) Globally() *Policy {
	for _, name := range spb.propertyNames {
		spb.p.globalStyles[name] = append(spb.p.globalStyles[name],
			spb.stylePolicy())
	}
	return spb.p
}

func (spb *StylePolicyBuilder) stylePolicy() stylePolicy {
	return stylePolicy{
		handler: spb.handler,
		enum:    spb.enum,
		regexp:  spb.regexp,
	}
}
