package pagescout_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/pagescout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		href    string
		pageURL string
		want    string
	}{
		{"absolute path", "/about", "https://example.com/services/seo", "https://example.com/about"},
		{"relative to page", "ppc", "https://example.com/services/seo", "https://example.com/services/ppc"},
		{"relative to directory", "ppc", "https://example.com/services/", "https://example.com/services/ppc"},
		{"parent directory", "../team", "https://example.com/about/history/", "https://example.com/about/team"},
		{"protocol relative", "//example.com/news", "https://example.com/", "https://example.com/news"},
		{"absolute URL", "http://other.com/x", "https://example.com/", "http://other.com/x"},
		{"query kept", "?page=2", "https://example.com/blog", "https://example.com/blog?page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pagescout.ResolveURL(tt.href, tt.pageURL)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveURL_rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
	}{
		{"mailto", "mailto:hi@example.com"},
		{"javascript", "javascript:void(0)"},
		{"ftp", "ftp://example.com/file"},
		{"embedded scheme", "/blog/https://example.com/post"},
		{"embedded http scheme", "https://example.com/http://example.com/"},
		{"unparsable", "http://[::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pagescout.ResolveURL(tt.href, "https://example.com/")

			require.Error(t, err)
			assert.Equal(t, pagescout.EINVALID, pagescout.ErrorCode(err))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com", "https://example.com/"},
		{"https://example.com/", "https://example.com/"},
		{"https://www.example.com/about/", "https://example.com/about"},
		{"https://Example.COM/About", "https://example.com/About"},
		{"https://example.com/shop?page=2", "https://example.com/shop?page=2"},
		{"https://example.com/faq#pricing", "https://example.com/faq"},
		{"http://example.com/about", "http://example.com/about"},
		{"https://example.com:8443/a/", "https://example.com:8443/a"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := pagescout.NormalizeKey(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKey_invalid(t *testing.T) {
	t.Parallel()

	_, err := pagescout.NormalizeKey("not a url")

	assert.Equal(t, pagescout.EINVALID, pagescout.ErrorCode(err))
}

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/  ", "https://example.com"},
		{"http://example.com//", "http://example.com"},
		{"https://www.example.com/agency/", "https://www.example.com/agency"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := pagescout.NormalizeBaseURL(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := pagescout.NormalizeBaseURL("   ")

		assert.Equal(t, pagescout.EINVALID, pagescout.ErrorCode(err))
	})

	t.Run("rejects unsupported schemes", func(t *testing.T) {
		t.Parallel()

		_, err := pagescout.NormalizeBaseURL("ftp://example.com")

		assert.Equal(t, pagescout.EINVALID, pagescout.ErrorCode(err))
	})
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	host := pagescout.SiteHost(mustParse(t, "https://www.Example.com"))

	assert.Equal(t, "example.com", host)
	assert.True(t, pagescout.SameSite(mustParse(t, "https://example.com/a"), host))
	assert.True(t, pagescout.SameSite(mustParse(t, "http://WWW.example.com/a"), host))
	assert.False(t, pagescout.SameSite(mustParse(t, "https://blog.example.com/a"), host))
	assert.False(t, pagescout.SameSite(mustParse(t, "https://example.org/a"), host))
}

func TestIsPageLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"https://example.com/", true},
		{"https://example.com/services/web-design/", true},
		{"https://example.com/about.html", true},
		{"https://example.com/shop?page=2", true},
		{"https://example.com/brochure.PDF", false},
		{"https://example.com/logo.svg", false},
		{"https://example.com/sitemap.xml", false},
		{"https://example.com/robots.txt", false},
		{"https://example.com/app.js", false},
		{"https://example.com/wp-admin/", false},
		{"https://example.com/wp-admin", false},
		{"https://example.com/wp-content/uploads/2024/01/photo", false},
		{"https://example.com/admin/users", false},
		{"https://example.com/api/v1/items", false},
		{"https://example.com/feed", false},
		{"https://example.com/blog/feed/", false},
		{"https://example.com/rss", false},
		{"https://example.com/atom", false},
		{"https://example.com/news.rss", false},
		{"https://example.com/?feed=rss2", false},
		{"https://example.com/contact#form", false},
		{"https://example.com/administration", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, pagescout.IsPageLike(mustParse(t, tt.raw)))
		})
	}
}

func TestTitleFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/", "Home"},
		{"https://example.com", "Home"},
		{"https://example.com/about-us/", "About Us"},
		{"https://example.com/services/web_design", "Web Design"},
		{"https://example.com/blog/my-first-post.html", "My First Post"},
		{"https://example.com/case+studies", "Case Studies"},
		{"https://example.com/faq", "Faq"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, pagescout.TitleFromURL(tt.raw))
		})
	}
}
