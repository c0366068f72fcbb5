package htmlsafe

import (
	"strconv"
	"strings"
)

type imageCandidates []*imageCandidate

// parseSrcSetAttribute splits a srcset value into its image candidates and
// keeps those whose URL passes the deny list and whose descriptor is a valid
// width or density.
// https://html.spec.whatwg.org/#parse-a-srcset-attribute
func (self *Policy) parseSrcSetAttribute(attr string) imageCandidates {
	n := strings.Count(attr, ", ")
	images := make(imageCandidates, 0, n+1)

	for _, value := range strings.Split(attr, ", ") {
		if image := parseImageCandidate(value, self.validURL); image != nil {
			images = append(images, image)
		}
	}
	return images
}

func (c imageCandidates) String() string {
	images := make([]string, len(c))
	for i, image := range c {
		images[i] = image.String()
	}
	return strings.Join(images, ", ")
}

type imageCandidate struct {
	url        string
	descriptor string
}

func parseImageCandidate(input string, valid func(string) bool,
) *imageCandidate {
	url, descr, _ := strings.Cut(strings.TrimSpace(input), " ")
	if url == "" || !valid(url) || !validWidthDensity(descr) {
		return nil
	}
	return &imageCandidate{url: url, descriptor: descr}
}

// validWidthDensity accepts an empty descriptor, a width like "640w" or a
// density like "1.5x". Anything else, including a second descriptor, rejects
// the candidate.
func validWidthDensity(value string) bool {
	if value == "" {
		return true
	} else if strings.Contains(value, " ") {
		return false
	}

	switch value[len(value)-1] {
	case 'w', 'x':
	default:
		return false
	}

	_, err := strconv.ParseFloat(value[:len(value)-1], 32)
	return err == nil
}

func (self *imageCandidate) String() string {
	if self.descriptor == "" {
		return self.url
	}
	return self.url + " " + self.descriptor
}
