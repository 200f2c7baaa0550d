package config

import "time"

// DefaultAPIURL is the production dictionary backend used when no origin is configured.
const DefaultAPIURL = "https://chatjlptbackend-production.up.railway.app"

// DefaultSiteURL is the public origin the sitemap advertises.
const DefaultSiteURL = "https://www.chatjlpt.jp"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:            DefaultAPIURL,
		SiteURL:           DefaultSiteURL,
		Port:              8080,
		DataDir:           ".jisho",
		RequestTimeout:    10 * time.Second,
		SitemapRevalidate: time.Hour,
		SearchDebounce:    300 * time.Millisecond,
		RecentLimit:       10,
		GenerateRPM:       30,
	}
}
