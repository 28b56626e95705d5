package theme

import (
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{
			name:      "load dark theme",
			themeName: "dark",
			wantName:  "dark",
		},
		{
			name:      "load light theme",
			themeName: "LIGHT",
			wantName:  "light",
		},
		{
			name:      "empty name defaults to dark",
			themeName: "",
			wantName:  "dark",
		},
		{
			name:      "invalid theme falls back to dark",
			themeName: "nonexistent",
			wantName:  "dark",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_AllColorsSet(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			theme, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", name, err)
			}
			colors := map[string]string{
				"bg":           theme.Bg,
				"bg_highlight": theme.BgHighlight,
				"bg_selection": theme.BgSelection,
				"fg":           theme.Fg,
				"fg_muted":     theme.FgMuted,
				"accent":       theme.Accent,
				"available":    theme.Available,
				"maybe":        theme.Maybe,
				"empty":        theme.Empty,
				"warning":      theme.Warning,
			}
			for field, v := range colors {
				if len(v) != 7 || v[0] != '#' {
					t.Errorf("%s = %q, want #rrggbb", field, v)
				}
			}
			if err := theme.Heatmap().Validate(); err != nil {
				t.Errorf("heatmap palette invalid: %v", err)
			}
		})
	}
}

func TestHeatmap_MatchesWebColors(t *testing.T) {
	theme, err := Load("dark")
	if err != nil {
		t.Fatal(err)
	}
	p := theme.Heatmap()
	if p.Available != "#1db954" || p.Maybe != "#ff9800" {
		t.Errorf("heatmap palette = %+v", p)
	}
	if p.Background != theme.Bg {
		t.Errorf("background = %q, want theme bg %q", p.Background, theme.Bg)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("Dark") || !IsAvailable("light") {
		t.Error("expected dark and light to be available")
	}
	if IsAvailable("mocha") {
		t.Error("mocha is not shipped")
	}
}
