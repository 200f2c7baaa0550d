package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to jisho! Let's configure the dictionary front-end.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend origin.
	apiPrompt := promptui.Prompt{
		Label:   "Dictionary backend URL",
		Default: cfg.APIURL,
		Validate: func(s string) error {
			if _, err := url.ParseRequestURI(NormalizeOrigin(s)); err != nil {
				return fmt.Errorf("not a valid URL")
			}
			return nil
		},
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.APIURL = NormalizeOrigin(apiURL)

	// 2. Public site origin used in the sitemap.
	sitePrompt := promptui.Prompt{
		Label:   "Public site URL",
		Default: cfg.SiteURL,
		Validate: func(s string) error {
			u, err := url.ParseRequestURI(s)
			if err != nil || u.Host == "" {
				return fmt.Errorf("not a valid URL")
			}
			return nil
		},
	}
	siteURL, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site url: %w", err)
	}
	cfg.SiteURL = siteURL

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
