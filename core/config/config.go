// Package config holds the immutable run configuration shared by every
// pipeline stage. Defaults target the OWASP Cheat Sheet Series wiki; a YAML
// file or CLI flags may override individual fields.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/sanitize"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// IDPlaceholder is substituted with the page identifier in PageURLTemplate.
const IDPlaceholder = "{id}"

// Renderer backends.
const (
	RendererNative = "native"
	RendererChrome = "chrome"
)

// MaxConcurrency caps parallel page conversions to stay polite to the wiki.
const MaxConcurrency = 16

// Config is passed by value; stages never mutate it.
type Config struct {
	SiteHome        string `yaml:"site_home"`
	ListingURL      string `yaml:"listing_url"`
	PageURLTemplate string `yaml:"page_url_template"`
	LinkPrefix      string `yaml:"link_prefix"`
	GroupSelector   string `yaml:"group_selector"`

	Exclusions  []string        `yaml:"exclusions"`
	DraftMarker string          `yaml:"draft_marker"`
	SkipDrafts  bool            `yaml:"skip_drafts"`
	Rules       []sanitize.Rule `yaml:"rules"`

	ScratchDir string `yaml:"scratch_dir"`
	OutputFile string `yaml:"output_file"`

	Renderer      string             `yaml:"renderer"`
	RenderOptions core.RenderOptions `yaml:"render_options"`

	Concurrency   int           `yaml:"concurrency"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
	UserAgent     string        `yaml:"user_agent"`
}

const defaultSiteHome = "https://www.owasp.org/"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SiteHome:        defaultSiteHome,
		ListingURL:      "https://www.owasp.org/index.php/Category:Cheatsheets",
		PageURLTemplate: "https://www.owasp.org/index.php?title=" + IDPlaceholder + "&printable=no",
		LinkPrefix:      "/index.php/",
		GroupSelector:   ".mw-category-group",
		// Current format of these pages is not compatible with conversion.
		Exclusions:    []string{"Access_Control_Cheat_Sheet", "AppSensor_Cheat_Sheet"},
		DraftMarker:   "DRAFT CHEAT SHEET",
		SkipDrafts:    true,
		Rules:         sanitize.DefaultRules(defaultSiteHome),
		ScratchDir:    "work",
		OutputFile:    "owasp-cs-book.pdf",
		Renderer:      RendererNative,
		Concurrency:   1,
		FetchTimeout:  30 * time.Second,
		RenderTimeout: 60 * time.Second,
		UserAgent:     "cheatbook/1.0 (+https://github.com/gaurav-prasanna/cheatbook)",
	}
}

// Load reads a YAML file on top of Default. Keys absent from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Default rules embed the site home, so they are rebuilt after decoding
	// unless the file supplies its own.
	cfg.Rules = nil
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if cfg.Rules == nil {
		cfg.Rules = sanitize.DefaultRules(cfg.SiteHome)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.ListingURL == "":
		return fmt.Errorf("%w: listing_url is required", ErrInvalidConfig)
	case !strings.Contains(c.PageURLTemplate, IDPlaceholder):
		return fmt.Errorf("%w: page_url_template must contain %s", ErrInvalidConfig, IDPlaceholder)
	case c.GroupSelector == "":
		return fmt.Errorf("%w: group_selector is required", ErrInvalidConfig)
	case c.ScratchDir == "":
		return fmt.Errorf("%w: scratch_dir is required", ErrInvalidConfig)
	case c.OutputFile == "":
		return fmt.Errorf("%w: output_file is required", ErrInvalidConfig)
	case c.Renderer != RendererNative && c.Renderer != RendererChrome:
		return fmt.Errorf("%w: renderer %q (want %s or %s)", ErrInvalidConfig, c.Renderer, RendererNative, RendererChrome)
	case c.Concurrency < 1 || c.Concurrency > MaxConcurrency:
		return fmt.Errorf("%w: concurrency %d (want 1-%d)", ErrInvalidConfig, c.Concurrency, MaxConcurrency)
	case c.SkipDrafts && c.DraftMarker == "":
		return fmt.Errorf("%w: draft_marker is required when skip_drafts is set", ErrInvalidConfig)
	}
	if _, err := sanitize.New(c.Rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// PageURL returns the printable page URL for id.
func (c Config) PageURL(id string) string {
	return strings.ReplaceAll(c.PageURLTemplate, IDPlaceholder, id)
}

// Excluded reports whether id is in the static exclusion set.
func (c Config) Excluded(id string) bool {
	return slices.Contains(c.Exclusions, id)
}
