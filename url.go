package pagescout

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// assetExtensions are file extensions that never identify a content page.
var assetExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".svg": true, ".css": true, ".js": true, ".ico": true, ".xml": true,
	".txt": true, ".zip": true, ".exe": true, ".dmg": true,
}

// excludedPathParts mark admin, upload and API areas of a site.
var excludedPathParts = []string{
	"/wp-admin/",
	"/wp-content/uploads/",
	"/admin/",
	"/api/",
}

// ResolveURL resolves href against the URL of the page it was found on and
// validates the outcome. It returns EINVALID for unparsable input, schemes
// other than http and https, and paths that embed a second URL scheme
// (a common sitemap generator concatenation bug).
func ResolveURL(href, pageURL string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid page URL %q: %v", pageURL, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", href, err)
	}
	u := base.ResolveReference(ref)
	if err := validateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ParseURL parses an absolute URL and applies the same validation as
// ResolveURL.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if err := validateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

func validateURL(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "URL %q has no host", u.String())
	}
	if HasEmbeddedScheme(u) {
		return Errorf(EINVALID, "URL %q embeds a second scheme in its path", u.String())
	}
	return nil
}

// HasEmbeddedScheme reports whether the path of u contains another
// http: or https: URL.
func HasEmbeddedScheme(u *url.URL) bool {
	p := strings.ToLower(u.Path)
	return strings.Contains(p, "http:") || strings.Contains(p, "https:")
}

// NormalizeKey returns the deduplication key for rawURL: scheme, lower-case
// host without a leading "www.", and the path without a trailing slash
// (the root path stays "/"). The query is kept; the fragment is dropped.
func NormalizeKey(rawURL string) (string, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	return normalizeKey(u), nil
}

func normalizeKey(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.TrimPrefix(strings.ToLower(u.Host), "www."))
	b.WriteString(p)
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String()
}

// NormalizeBaseURL prepares a user-supplied site address: it adds https://
// when no scheme is given and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Errorf(EINVALID, "base URL required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	s = strings.TrimRight(s, "/")
	if _, err := ParseURL(s); err != nil {
		return "", err
	}
	return s, nil
}

// SiteHost returns the registrable host of u: lower-cased, without port and
// without a leading "www.".
func SiteHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameSite reports whether u belongs to the site whose SiteHost is host.
func SameSite(u *url.URL, host string) bool {
	return SiteHost(u) == host
}

// IsPageLike reports whether u is a candidate content page rather than a
// static asset, an admin or API endpoint, a feed, or an in-page anchor.
func IsPageLike(u *url.URL) bool {
	if u.Fragment != "" {
		return false
	}

	p := strings.ToLower(u.Path)
	if assetExtensions[path.Ext(p)] {
		return false
	}
	for _, part := range excludedPathParts {
		if strings.Contains(p+"/", part) {
			return false
		}
	}
	return !isFeed(p, u.RawQuery)
}

func isFeed(p, rawQuery string) bool {
	trimmed := strings.TrimSuffix(p, "/")
	for _, suffix := range []string{"/feed", "/rss", "/atom"} {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	switch path.Ext(p) {
	case ".rss", ".atom":
		return true
	}
	return strings.Contains(strings.ToLower(rawQuery), "feed=")
}

var titleCaser = cases.Title(language.English)

// TitleFromURL derives a human readable title from the last path segment
// of rawURL, e.g. "/services/web-design/" becomes "Web Design".
// The site root is titled "Home".
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return "Home"
	}
	seg := path.Base(p)
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	seg = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(seg)
	seg = strings.Join(strings.Fields(seg), " ")
	if seg == "" {
		return "Home"
	}
	return titleCaser.String(seg)
}
