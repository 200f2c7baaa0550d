package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// LegacyAPIURLEnvVar is honoured as a fallback for api_url so deployments
// configured for the old front-end keep pointing at the same backend.
const LegacyAPIURLEnvVar = "NEXT_PUBLIC_API_URL"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (JISHO_*). A .env file in the working
// directory is loaded first if present.
func Load(path string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if v := os.Getenv(LegacyAPIURLEnvVar); v != "" {
		if err := k.Set("api_url", v); err != nil {
			return nil, fmt.Errorf("applying %s: %w", LegacyAPIURLEnvVar, err)
		}
	}

	// Overlay environment variables: JISHO_API_URL -> api_url, etc.
	if err := k.Load(env.Provider("JISHO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "JISHO_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Translate(trans))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	if _, err := url.ParseRequestURI(c.BackendOrigin()); err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	return nil
}

// BackendOrigin returns the normalized origin of the dictionary backend.
func (c *Config) BackendOrigin() string {
	return NormalizeOrigin(c.APIURL)
}

// DictionaryURL returns the public URL of the dictionary home page.
func (c *Config) DictionaryURL() string {
	return strings.TrimRight(c.SiteURL, "/") + "/dictionary"
}

// NormalizeOrigin makes sure origin carries an explicit scheme, prefixing
// https:// when it has none. An empty origin falls back to DefaultAPIURL.
func NormalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = DefaultAPIURL
	}
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		origin = "https://" + origin
	}
	return strings.TrimRight(origin, "/")
}
