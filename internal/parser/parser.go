package parser

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Sentinels stand in for tags that are absent from the document.
// A tag that is present but empty yields an empty string instead.
const (
	NoTitle           = "No title found"
	NoMetaDescription = "No meta description"
)

const maxHeadingTexts = 3

// SEOData represents extracted title, description and H1 information.
type SEOData struct {
	HasTitle          bool
	Title             string
	TitleLength       int
	HasDescription    bool
	Description       string
	DescriptionLength int
	HeadingCount      int
	HeadingTexts      []string
}

// Elements holds presence checks for head-level SEO tags.
type Elements struct {
	HasCanonical    bool
	RobotsMeta      string
	HasOpenGraph    bool
	HasTwitterCard  bool
	HasJSONLD       bool
	HasVerification bool
	HasHreflang     bool
}

// Resources counts page resources.
type Resources struct {
	TotalImages      int
	ImagesWithoutAlt int
	ExternalScripts  int
	Stylesheets      int
	Links            int
}

// ParseResult aggregates HTML analysis results.
type ParseResult struct {
	Links       []string
	SEO         SEOData
	SchemaTypes []string
	Elements    Elements
	Resources   Resources
}

// ParseHTML parses HTML and extracts SEO signals, schema types, resource counts and raw hrefs.
// Every extraction defaults independently when its tag is missing.
func ParseHTML(body string) (ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ParseResult{}, err
	}

	return ParseResult{
		Links:       parseLinks(doc),
		SEO:         parseSEO(doc),
		SchemaTypes: parseSchemaTypes(doc),
		Elements:    parseElements(doc),
		Resources:   parseResources(doc),
	}, nil
}

func parseSEO(doc *goquery.Document) SEOData {
	seo := SEOData{
		Title:        NoTitle,
		Description:  NoMetaDescription,
		HeadingTexts: []string{},
	}

	if title, ok := findFirst(doc, "title", nil); ok {
		seo.HasTitle = true
		seo.Title = strings.TrimSpace(title.Text())
		seo.TitleLength = utf8.RuneCountInString(seo.Title)
	}

	if meta, ok := findFirst(doc, "meta", attrEquals("name", "description")); ok {
		seo.HasDescription = true
		content, _ := meta.Attr("content")
		seo.Description = strings.TrimSpace(content)
		seo.DescriptionLength = utf8.RuneCountInString(seo.Description)
	}

	headings := doc.Find("h1")
	seo.HeadingCount = headings.Length()
	headings.EachWithBreak(func(i int, selection *goquery.Selection) bool {
		if i >= maxHeadingTexts {
			return false
		}

		seo.HeadingTexts = append(seo.HeadingTexts, cleanHumanText(selection.Text()))

		return true
	})

	return seo
}

func parseElements(doc *goquery.Document) Elements {
	elements := Elements{}

	_, elements.HasCanonical = findFirst(doc, "link", attrHasToken("rel", "canonical"))

	if robots, ok := findFirst(doc, "meta", attrEquals("name", "robots")); ok {
		content, _ := robots.Attr("content")
		elements.RobotsMeta = strings.TrimSpace(content)
	}

	elements.HasOpenGraph = hasSocialMeta(doc, "og:title") &&
		hasSocialMeta(doc, "og:description") &&
		hasSocialMeta(doc, "og:image")
	elements.HasTwitterCard = hasSocialMeta(doc, "twitter:card")

	_, elements.HasJSONLD = findFirst(doc, "script", attrEquals("type", jsonLDType))
	_, elements.HasVerification = findFirst(doc, "meta", attrEquals("name", "google-site-verification"))
	_, elements.HasHreflang = findFirst(doc, "link[hreflang]", nil)

	return elements
}

// hasSocialMeta accepts both property= and name= spellings of OpenGraph and Twitter tags.
func hasSocialMeta(doc *goquery.Document, key string) bool {
	if _, ok := findFirst(doc, "meta", attrEquals("property", key)); ok {
		return true
	}

	_, ok := findFirst(doc, "meta", attrEquals("name", key))

	return ok
}

func parseResources(doc *goquery.Document) Resources {
	resources := Resources{}

	images := doc.Find("img")
	resources.TotalImages = images.Length()
	images.Each(func(_ int, selection *goquery.Selection) {
		alt, ok := selection.Attr("alt")
		if !ok || strings.TrimSpace(alt) == "" {
			resources.ImagesWithoutAlt++
		}
	})

	resources.ExternalScripts = doc.Find("script[src]").Length()
	resources.Stylesheets = doc.Find("link").FilterFunction(func(_ int, selection *goquery.Selection) bool {
		return attrHasToken("rel", "stylesheet")(selection)
	}).Length()
	resources.Links = doc.Find("a[href]").Length()

	return resources
}

func parseLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		links = append(links, strings.TrimSpace(href))
	})

	return links
}

func parseSchemaTypes(doc *goquery.Document) []string {
	types := map[string]struct{}{}

	doc.Find("script").Each(func(_ int, selection *goquery.Selection) {
		if !attrEquals("type", jsonLDType)(selection) {
			return
		}

		for _, schemaType := range jsonLDTypes(selection.Text()) {
			types[schemaType] = struct{}{}
		}
	})

	doc.Find("[itemtype]").Each(func(_ int, selection *goquery.Selection) {
		value, _ := selection.Attr("itemtype")
		for _, schemaType := range microdataTypes(value) {
			types[schemaType] = struct{}{}
		}
	})

	result := make([]string, 0, len(types))
	for schemaType := range types {
		result = append(result, schemaType)
	}
	sort.Strings(result)

	return result
}
