package htmlsafe

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

var cssUnicodeChar = regexp.MustCompile(`\\[0-9a-f]{1,6} ?`)

// stylePrefixes are vendor prefixes stripped from property names before
// matching, so a policy for "color" also covers "-webkit-color".
var stylePrefixes = [...]string{
	"-webkit-", "-moz-", "-ms-", "-o-", "mso-", "-xv-", "-atsc-", "-wap-",
	"-khtml-", "prince-", "-ah-", "-hp-", "-ro-", "-rim-", "-tc-",
}

func (self *Policy) hasStylePolicies(elementName string) bool {
	if len(self.globalStyles) > 0 {
		return true
	}
	return len(self.elsAndStyles[elementName]) > 0
}

// sanitizeStyles parses the style attribute as a CSS declaration list and
// keeps only declarations an element specific or global style policy admits.
// The attribute value becomes empty when nothing survives or the value does
// not parse.
func (self *Policy) sanitizeStyles(attr *html.Attribute, elementName string) {
	sps := self.elsAndStyles[elementName]

	// The parser wants a trailing semicolon.
	attr.Val = strings.TrimRight(attr.Val, " ")
	if len(attr.Val) > 0 && attr.Val[len(attr.Val)-1] != ';' {
		attr.Val += ";"
	}

	decs, err := parser.ParseDeclarations(attr.Val)
	if err != nil {
		attr.Val = ""
		return
	}

	clean := make([]string, 0, len(decs))
	for _, dec := range decs {
		property := stripVendorPrefix(strings.ToLower(dec.Property))
		value := removeUnicode(strings.ToLower(dec.Value))
		if matchStyle(sps[property], value) ||
			matchStyle(self.globalStyles[property], value) {
			clean = append(clean, dec.Property+": "+dec.Value)
		}
	}

	attr.Val = strings.Join(clean, "; ")
}

func matchStyle(policies []stylePolicy, value string) bool {
	for _, sp := range policies {
		switch {
		case sp.handler != nil:
			if sp.handler(value) {
				return true
			}
		case len(sp.enum) > 0:
			if slices.ContainsFunc(sp.enum, func(s string) bool {
				return strings.EqualFold(s, value)
			}) {
				return true
			}
		case sp.regexp != nil:
			if sp.regexp.MatchString(value) {
				return true
			}
		}
	}
	return false
}

func stripVendorPrefix(property string) string {
	for _, prefix := range stylePrefixes {
		property = strings.TrimPrefix(property, prefix)
	}
	return property
}

// removeUnicode resolves CSS unicode escapes like `\6a` so a policy match
// runs against the characters they denote, not the escape text. An escape
// that does not resolve empties the whole value.
func removeUnicode(value string) string {
	substituted := value
	loc := cssUnicodeChar.FindStringIndex(substituted)
	for loc != nil {
		character := strings.TrimSpace(substituted[loc[0]+1 : loc[1]])
		if len(character) < 4 {
			character = strings.Repeat("0", 4-len(character)) + character
		} else {
			for len(character) > 4 {
				if character[0] != '0' {
					character = ""
					break
				}
				character = character[1:]
			}
		}

		translated, err := strconv.Unquote(`"\u` + character + `"`)
		if err != nil {
			return ""
		}

		substituted = substituted[:loc[0]] + strings.TrimSpace(translated) +
			substituted[loc[1]:]
		loc = cssUnicodeChar.FindStringIndex(substituted)
	}
	return substituted
}
