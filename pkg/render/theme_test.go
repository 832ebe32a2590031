package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timelineform/pkg/render"
)

func TestThemeConfig(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#123456",
			"surface": "#ffffff",
		},
		Templates: map[string]string{
			"forms.select": "themes/acme/select.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme/",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"surface": "#000000"},
				Assets: theme.Assets{
					Files: map[string]string{"stylesheet": "theme.dark.css"},
				},
			},
		},
	}

	cfg := render.ThemeConfig(manifest, "dark")
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme selection %s/%s", cfg.Theme, cfg.Variant)
	}

	wantVars := map[string]string{"--brand": "#123456", "--surface": "#000000"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Partials["forms.select"]; got != "themes/acme/select.tmpl" {
		t.Fatalf("expected select partial, got %q", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("logo.svg"); got != "/assets/themes/acme/logo.svg" {
		t.Fatalf("unexpected asset url %q", got)
	}

	base := render.ThemeConfig(manifest, "sepia")
	if base.Variant != "" || base.CSSVars["--surface"] != "#ffffff" {
		t.Fatalf("unknown variant should fall back to base tokens, got %+v", base)
	}

	if render.ThemeConfig(nil, "dark") != nil {
		t.Fatalf("expected nil config for nil manifest")
	}
}
