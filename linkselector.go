package pagescout

// Link is an anchor found on a page.
type Link struct {
	URL  string
	Text string
}

// PageMeta is the descriptive metadata of a fetched page.
type PageMeta struct {
	Title       string
	Description string
}

// LinkExtractor parses HTML documents.
type LinkExtractor interface {
	// ExtractLinks returns the anchors of html resolved against pageURL.
	// Anchors that cannot be resolved, in-page anchors, and mailto:, tel:
	// and javascript: targets are skipped.
	ExtractLinks(html string, pageURL string) ([]Link, error)

	// ExtractMeta returns the document title and meta description.
	ExtractMeta(html string) (PageMeta, error)
}
