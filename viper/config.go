// Package viper loads pagescout configuration using spf13/viper.
//
// Values are layered: DefaultConfig, then an optional config file (YAML,
// TOML or JSON, chosen by extension), then PAGESCOUT_* environment
// variables. Nested keys map to environment variables by replacing dots
// with underscores, e.g. crawl.max_depth is PAGESCOUT_CRAWL_MAX_DEPTH.
package viper

import (
	"strings"

	"github.com/fwojciec/pagescout"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PAGESCOUT"

// Load reads the configuration from the file at path, if path is not empty,
// and from the environment, and validates the result.
func Load(path string) (pagescout.Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is like Load but uses the given Viper instance, so callers can
// bind flags or set overrides beforehand.
func LoadWith(v *viper.Viper, path string) (pagescout.Config, error) {
	setDefaults(v, pagescout.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pagescout.Config{}, pagescout.Errorf(pagescout.EINVALID, "reading config file %s: %v", path, err)
		}
	}

	var cfg pagescout.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return pagescout.Config{}, pagescout.Errorf(pagescout.EINVALID, "decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return pagescout.Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// values that no config file mentions.
func setDefaults(v *viper.Viper, d pagescout.Config) {
	v.SetDefault("max_pages", d.MaxPages)
	v.SetDefault("deadline", d.Deadline)
	v.SetDefault("user_agent", d.UserAgent)

	v.SetDefault("sitemap.candidates", d.Sitemap.Candidates)
	v.SetDefault("sitemap.candidate_timeout", d.Sitemap.CandidateTimeout)
	v.SetDefault("sitemap.child_timeout", d.Sitemap.ChildTimeout)
	v.SetDefault("sitemap.max_pagination_pages", d.Sitemap.MaxPaginationPages)
	v.SetDefault("sitemap.robots_txt", d.Sitemap.RobotsTxt)

	v.SetDefault("crawl.seed_paths", d.Crawl.SeedPaths)
	v.SetDefault("crawl.max_depth", d.Crawl.MaxDepth)
	v.SetDefault("crawl.max_urls_per_depth", d.Crawl.MaxURLsPerDepth)
	v.SetDefault("crawl.fetch_timeout", d.Crawl.FetchTimeout)
	v.SetDefault("crawl.delay", d.Crawl.Delay)
	v.SetDefault("crawl.concurrency", d.Crawl.Concurrency)

	v.SetDefault("probe.paths", d.Probe.Paths)
	v.SetDefault("probe.timeout", d.Probe.Timeout)
}
