package http

import (
	"bytes"
	"html"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// sitemapEntry is one <url> entry of a leaf sitemap.
type sitemapEntry struct {
	Loc     string
	LastMod string
}

// leafParser extracts entries from a sitemap body. Parsers are tried in
// order until one yields at least one entry.
type leafParser func(body []byte) []sitemapEntry

var leafParsers = []leafParser{
	parseURLBlocks,
	parseLocTags,
	parseCDATASections,
}

var (
	locTagRe  = regexp.MustCompile(`(?is)<loc>\s*(.*?)\s*</loc>`)
	cdataRe   = regexp.MustCompile(`(?s)<!\[CDATA\[\s*(https?://.*?)\s*\]\]>`)
	cdataWrap = regexp.MustCompile(`(?s)^<!\[CDATA\[\s*(.*?)\s*\]\]>$`)
)

// parseLeaf runs the parser chain over a leaf sitemap.
func parseLeaf(body []byte) []sitemapEntry {
	for _, parse := range leafParsers {
		if entries := parse(body); len(entries) > 0 {
			return entries
		}
	}
	return nil
}

// parseURLBlocks reads <url> elements with their <loc> and <lastmod>
// children from a well-formed (or permissively readable) document.
func parseURLBlocks(body []byte) []sitemapEntry {
	doc, ok := readXML(body)
	if !ok {
		return nil
	}

	var entries []sitemapEntry
	for _, el := range doc.FindElements("//url") {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := cleanLoc(loc.Text())
		if u == "" {
			continue
		}
		entry := sitemapEntry{Loc: u}
		if lastmod := el.SelectElement("lastmod"); lastmod != nil {
			entry.LastMod = strings.TrimSpace(lastmod.Text())
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseLocTags scans for bare <loc> tags. It tolerates documents the XML
// reader rejects, e.g. unescaped ampersands or truncated bodies.
func parseLocTags(body []byte) []sitemapEntry {
	var entries []sitemapEntry
	for _, m := range locTagRe.FindAllSubmatch(body, -1) {
		if u := cleanLoc(string(m[1])); u != "" {
			entries = append(entries, sitemapEntry{Loc: u})
		}
	}
	return entries
}

// parseCDATASections picks absolute URLs out of CDATA sections.
func parseCDATASections(body []byte) []sitemapEntry {
	var entries []sitemapEntry
	for _, m := range cdataRe.FindAllSubmatch(body, -1) {
		if u := strings.TrimSpace(string(m[1])); u != "" {
			entries = append(entries, sitemapEntry{Loc: u})
		}
	}
	return entries
}

// isSitemapIndex reports whether body lists sitemaps rather than pages.
func isSitemapIndex(body []byte) bool {
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("<sitemapindex")) || bytes.Contains(lower, []byte("<sitemap>"))
}

// parseIndexLocs returns the child sitemap locations of an index.
func parseIndexLocs(body []byte) []string {
	var locs []string
	if doc, ok := readXML(body); ok {
		for _, loc := range doc.FindElements("//sitemap/loc") {
			if u := cleanLoc(loc.Text()); u != "" {
				locs = append(locs, u)
			}
		}
	}
	if len(locs) > 0 {
		return locs
	}
	for _, e := range parseLocTags(body) {
		locs = append(locs, e.Loc)
	}
	return locs
}

func readXML(body []byte) (*etree.Document, bool) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, false
	}
	if doc.Root() == nil {
		return nil, false
	}
	return doc, true
}

// cleanLoc trims a <loc> value, unwraps CDATA and decodes XML entities.
func cleanLoc(s string) string {
	s = strings.TrimSpace(s)
	if m := cdataWrap.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(html.UnescapeString(s))
}

// Pagination conventions: SEO plugins number the sitemap itself
// (post-sitemap2.xml), WordPress core appends a dashed page number
// (wp-sitemap-posts-post-2.xml). The SEO pattern is checked first.
var paginationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.+-sitemap)(\d+)(\.xml)$`),
	regexp.MustCompile(`^(.+-)(\d+)(\.xml)$`),
}

// pagination describes a numbered sitemap and builds its sibling URLs.
type pagination struct {
	base   *url.URL
	dir    string
	prefix string
	suffix string
	page   int
}

// parsePagination reports whether sitemapURL follows a known numbering
// convention.
func parsePagination(sitemapURL string) (*pagination, bool) {
	u, err := url.Parse(sitemapURL)
	if err != nil {
		return nil, false
	}
	dir, file := path.Split(u.Path)
	for _, re := range paginationPatterns {
		m := re.FindStringSubmatch(file)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, false
		}
		return &pagination{base: u, dir: dir, prefix: m[1], suffix: m[3], page: n}, true
	}
	return nil, false
}

// pageURL returns the URL of page n of the chain.
func (p *pagination) pageURL(n int) string {
	u := *p.base
	u.Path = p.dir + p.prefix + strconv.Itoa(n) + p.suffix
	u.RawPath = ""
	return u.String()
}
