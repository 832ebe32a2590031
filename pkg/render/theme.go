package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig flattens a go-theme manifest and variant into the renderer
// configuration. Variant tokens, templates and asset files override the
// base manifest; every token also becomes a CSS custom property "--<token>".
// A nil manifest yields nil.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}

	tokens := mergeMaps(manifest.Tokens, nil)
	partials := mergeMaps(manifest.Templates, nil)
	files := mergeMaps(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if selected, ok := manifest.Variants[variant]; ok {
		tokens = mergeMaps(tokens, selected.Tokens)
		partials = mergeMaps(partials, selected.Templates)
		files = mergeMaps(files, selected.Assets.Files)
		if selected.Assets.Prefix != "" {
			prefix = selected.Assets.Prefix
		}
	} else {
		variant = ""
	}

	var cssVars map[string]string
	if len(tokens) > 0 {
		cssVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cssVars["--"+strings.TrimPrefix(key, "--")] = value
		}
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

// assetResolver maps an asset key to its URL. Unknown keys are treated as
// file names relative to the prefix.
func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		file := key
		if mapped, ok := files[key]; ok {
			file = mapped
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeMaps(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}
