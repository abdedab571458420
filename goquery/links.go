// Package goquery implements HTML parsing for pagescout using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagescout"
)

// Ensure LinkExtractor implements pagescout.LinkExtractor.
var _ pagescout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchors and page metadata from HTML documents.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns every anchor of html in document order, resolved
// against pageURL and deduplicated by resolved URL. The first occurrence of
// a URL keeps its link text.
func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]pagescout.Link, error) {
	if _, err := pagescout.ParseURL(pageURL); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []pagescout.Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isSkippedHref(href) {
			return
		}

		resolved, err := pagescout.ResolveURL(href, pageURL)
		if err != nil {
			return
		}
		u := resolved.String()
		if seen[u] {
			return
		}
		seen[u] = true
		links = append(links, pagescout.Link{
			URL:  u,
			Text: strings.Join(strings.Fields(sel.Text()), " "),
		})
	})
	return links, nil
}

// ExtractMeta returns the <title> and meta description of html.
func (e *LinkExtractor) ExtractMeta(html string) (pagescout.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return pagescout.PageMeta{}, pagescout.Errorf(pagescout.EINVALID, "failed to parse HTML: %v", err)
	}

	var meta pagescout.PageMeta
	meta.Title = strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
	if meta.Title == "" {
		meta.Title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	}
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		content, _ := sel.Attr("content")
		meta.Description = strings.TrimSpace(content)
		return false
	})
	return meta, nil
}

// isSkippedHref reports whether href points inside the current page or to a
// non-HTTP target.
func isSkippedHref(href string) bool {
	if strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:")
}
