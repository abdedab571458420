package mock

import "github.com/fwojciec/pagescout"

var _ pagescout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of pagescout.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) ([]pagescout.Link, error)
	ExtractMetaFn  func(html string) (pagescout.PageMeta, error)
}

func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]pagescout.Link, error) {
	return e.ExtractLinksFn(html, pageURL)
}

func (e *LinkExtractor) ExtractMeta(html string) (pagescout.PageMeta, error) {
	return e.ExtractMetaFn(html)
}
