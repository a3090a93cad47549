package discover

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"seoaudit/internal/urlutil"
)

// MaxPages caps how many additional pages one audit visits.
const MaxPages = 3

// Keywords mark paths worth auditing beyond the homepage.
var Keywords = []string{"about", "contact", "product", "service", "shop", "store", "collection", "blog"}

// Selection is the outcome of link discovery on one page.
type Selection struct {
	Pages   []string
	HasBlog bool
}

// Select resolves hrefs against base, keeps links on the exact same host and
// picks up to MaxPages distinct URLs whose path mentions a keyword, in document order.
// Discovery is one level deep; nothing is fetched here.
func Select(base *url.URL, hrefs []string) Selection {
	selection := Selection{Pages: []string{}}
	seen := map[string]bool{base.String(): true}

	for _, href := range hrefs {
		absolute, ok := urlutil.Resolve(base, href)
		if !ok || !urlutil.SameHost(base, absolute) {
			continue
		}

		if strings.Contains(strings.ToLower(absolute), "blog") {
			selection.HasBlog = true
		}

		if seen[absolute] || len(selection.Pages) >= MaxPages {
			continue
		}

		if matchesKeyword(absolute) {
			seen[absolute] = true
			selection.Pages = append(selection.Pages, absolute)
		}
	}

	return selection
}

func matchesKeyword(absolute string) bool {
	parsed, err := url.Parse(absolute)
	if err != nil {
		return false
	}

	lowerPath := strings.ToLower(parsed.Path)
	for _, keyword := range Keywords {
		if strings.Contains(lowerPath, keyword) {
			return true
		}
	}

	return false
}

// DisplayName derives a human label from the last path segment,
// e.g. "https://example.com/about-us/" becomes "About Us".
func DisplayName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "Page"
	}

	segment := path.Base(strings.TrimRight(parsed.Path, "/"))
	if segment == "." || segment == "/" || segment == "" {
		return "Page"
	}

	segment = strings.TrimSuffix(segment, path.Ext(segment))
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(segment))
	if len(words) == 0 {
		return "Page"
	}

	return cases.Title(language.English).String(strings.Join(words, " "))
}
