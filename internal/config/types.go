package config

import "time"

// Config is the top-level jisho configuration, corresponding to .jisho.yml.
type Config struct {
	APIURL            string        `yaml:"api_url" koanf:"api_url" validate:"required"`
	SiteURL           string        `yaml:"site_url" koanf:"site_url" validate:"required,url"`
	Port              int           `yaml:"port" koanf:"port" validate:"gte=0,lte=65535"`
	DataDir           string        `yaml:"data_dir" koanf:"data_dir" validate:"required"`
	RequestTimeout    time.Duration `yaml:"request_timeout" koanf:"request_timeout" validate:"gt=0"`
	SitemapRevalidate time.Duration `yaml:"sitemap_revalidate" koanf:"sitemap_revalidate" validate:"gt=0"`
	SearchDebounce    time.Duration `yaml:"search_debounce" koanf:"search_debounce" validate:"gt=0"`
	RecentLimit       int           `yaml:"recent_limit" koanf:"recent_limit" validate:"gt=0,lte=100"`
	GenerateRPM       int           `yaml:"generate_rpm" koanf:"generate_rpm" validate:"gte=0"`
	CORSAllowAll      bool          `yaml:"cors_allow_all" koanf:"cors_allow_all"`
}
