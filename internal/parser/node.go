package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// attrFilter decides whether a candidate element matches.
type attrFilter func(*goquery.Selection) bool

// findFirst returns the first element matching selector and filter.
// Later matches are ignored.
func findFirst(doc *goquery.Document, selector string, filter attrFilter) (*goquery.Selection, bool) {
	var found *goquery.Selection

	doc.Find(selector).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		if filter != nil && !filter(selection) {
			return true
		}

		found = selection

		return false
	})

	return found, found != nil
}

// attrEquals matches an attribute value case-insensitively, ignoring surrounding space.
func attrEquals(name, want string) attrFilter {
	return func(selection *goquery.Selection) bool {
		value, ok := selection.Attr(name)
		if !ok {
			return false
		}

		return strings.EqualFold(strings.TrimSpace(value), want)
	}
}

// attrHasToken matches space-separated attributes such as rel="alternate canonical".
func attrHasToken(name, token string) attrFilter {
	return func(selection *goquery.Selection) bool {
		value, ok := selection.Attr(name)
		if !ok {
			return false
		}

		for _, field := range strings.Fields(value) {
			if strings.EqualFold(field, token) {
				return true
			}
		}

		return false
	}
}
