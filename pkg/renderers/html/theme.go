package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in theme manifest.
const DefaultThemeName = "formbuilder"

// StylesheetAssetKey is the asset key a theme manifest uses to ship an extra
// stylesheet for the HTML renderer.
const StylesheetAssetKey = "html.stylesheet"

// DefaultManifest returns the built-in theme with a light default and a dark
// variant. Tokens become CSS custom properties named --<token>.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-accent":     "#2563eb",
			"color-background": "#f9fafb",
			"color-border":     "#d1d5db",
			"color-error":      "#dc2626",
			"color-success":    "#15803d",
			"color-surface":    "#ffffff",
			"color-text":       "#111827",
			"radius":           "6px",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-accent":     "#60a5fa",
					"color-background": "#111827",
					"color-border":     "#374151",
					"color-error":      "#f87171",
					"color-success":    "#4ade80",
					"color-surface":    "#1f2937",
					"color-text":       "#f9fafb",
				},
			},
		},
	}
}

// manifestSelector resolves theme names against an in-memory manifest set.
type manifestSelector struct {
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*manifestSelector)(nil)

// NewThemeSelector builds a selector over manifests. The first manifest is
// used when a selection names no theme. Without manifests the built-in theme
// is used.
func NewThemeSelector(manifests ...*theme.Manifest) theme.ThemeSelector {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	selector := &manifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		if selector.defaultTheme == "" {
			selector.defaultTheme = manifest.Name
		}
		selector.manifests[manifest.Name] = manifest
	}
	return selector
}

func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("html renderer: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("html renderer: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfigFromSelection flattens a selection into renderer config:
// variant tokens override base tokens and every token becomes a CSS variable.
func RendererConfigFromSelection(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	assets := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		assets[key] = value
	}
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Assets.Files {
			assets[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			file, ok := assets[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// ResolveTheme selects name/variant from selector and converts the result.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		selector = NewThemeSelector()
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfigFromSelection(selection), nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}
