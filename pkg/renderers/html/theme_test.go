package html

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

func TestRendererConfigFromSelection(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
			"ink":   "#000000",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				StylesheetAssetKey: "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
			},
		},
	}

	selection, err := NewThemeSelector(manifest).Select("", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := RendererConfigFromSelection(selection)

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	wantVars := map[string]string{"--brand": "#654321", "--ink": "#000000"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL(StylesheetAssetKey); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for missing asset, got %q", got)
	}
	if got := cssVarsStyle(cfg.CSSVars); got != "--brand: #654321; --ink: #000000;" {
		t.Fatalf("unexpected style %q", got)
	}
}
