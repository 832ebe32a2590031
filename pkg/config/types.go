package config

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// File is a parsed configuration file.
type File struct {
	Timelines []timeline.Descriptor `json:"timelines" yaml:"timelines" toml:"timelines"`
	Form      Form                  `json:"form" yaml:"form" toml:"form"`
	Themes    map[string]Theme      `json:"themes,omitempty" yaml:"themes,omitempty" toml:"themes,omitempty"`

	// Source records where the file was read from, for error messages.
	Source string `json:"-" yaml:"-" toml:"-"`
}

// Form holds presentation settings. Description may contain HTML and is
// sanitised on load. Help maps 1-based positions to help text.
type Form struct {
	Title       string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Theme       string            `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
	Variant     string            `json:"variant,omitempty" yaml:"variant,omitempty" toml:"variant,omitempty"`
	Help        map[string]string `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
}

// Theme describes a go-theme manifest inline.
type Theme struct {
	Version  string                  `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Tokens   map[string]string       `json:"tokens,omitempty" yaml:"tokens,omitempty" toml:"tokens,omitempty"`
	Assets   ThemeAssets             `json:"assets,omitempty" yaml:"assets,omitempty" toml:"assets,omitempty"`
	Variants map[string]ThemeVariant `json:"variants,omitempty" yaml:"variants,omitempty" toml:"variants,omitempty"`
}

// ThemeAssets mirrors theme.Assets.
type ThemeAssets struct {
	Prefix string            `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Files  map[string]string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`
}

// ThemeVariant overrides tokens and assets of its theme.
type ThemeVariant struct {
	Tokens map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty" toml:"tokens,omitempty"`
	Assets ThemeAssets       `json:"assets,omitempty" yaml:"assets,omitempty" toml:"assets,omitempty"`
}

// Set validates the timelines and returns the immutable descriptor set. An
// unknown item type fails the whole configuration.
func (f File) Set() (timeline.Set, error) {
	set, err := timeline.NewSet(f.Timelines)
	if err != nil {
		return timeline.Set{}, fmt.Errorf("config: %s: %w", f.sourceName(), err)
	}
	return set, nil
}

// Manifest converts the named inline theme into a go-theme manifest.
func (f File) Manifest(name string) (*theme.Manifest, bool) {
	cfg, ok := f.Themes[name]
	if !ok {
		return nil, false
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: cfg.Version,
		Tokens:  copyMap(cfg.Tokens),
		Assets: theme.Assets{
			Prefix: cfg.Assets.Prefix,
			Files:  copyMap(cfg.Assets.Files),
		},
	}
	if len(cfg.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(cfg.Variants))
		for variantName, variant := range cfg.Variants {
			manifest.Variants[variantName] = theme.Variant{
				Tokens: copyMap(variant.Tokens),
				Assets: theme.Assets{
					Prefix: variant.Assets.Prefix,
					Files:  copyMap(variant.Assets.Files),
				},
			}
		}
	}
	return manifest, true
}

// validateThemes registers every inline theme with a go-theme registry so
// malformed manifests are rejected at load time.
func (f File) validateThemes() error {
	registry := theme.NewRegistry()
	for name := range f.Themes {
		manifest, _ := f.Manifest(name)
		if err := registry.Register(manifest); err != nil {
			return fmt.Errorf("config: %s: theme %q: %w", f.sourceName(), name, err)
		}
	}
	if f.Form.Theme != "" {
		if _, ok := f.Themes[f.Form.Theme]; !ok {
			return fmt.Errorf("config: %s: form theme %q is not defined", f.sourceName(), f.Form.Theme)
		}
	}
	return nil
}

func (f File) sourceName() string {
	if f.Source == "" {
		return "<inline>"
	}
	return f.Source
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
