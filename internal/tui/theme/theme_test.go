package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func themeColors(theme *Theme) []struct {
	name  string
	color lipgloss.Color
} {
	return []struct {
		name  string
		color lipgloss.Color
	}{
		{"Base", theme.Base},
		{"Surface", theme.Surface},
		{"Overlay", theme.Overlay},
		{"Muted", theme.Muted},
		{"Subtle", theme.Subtle},
		{"Text", theme.Text},
		{"Primary", theme.Primary},
		{"Secondary", theme.Secondary},
		{"Tertiary", theme.Tertiary},
		{"Success", theme.Success},
		{"Warning", theme.Warning},
		{"Error", theme.Error},
		{"Info", theme.Info},
		{"Header", theme.Header},
		{"Level", theme.Level},
		{"Member", theme.Member},
		{"Border", theme.Border},
		{"Selection", theme.Selection},
		{"Highlight", theme.Highlight},
	}
}

func TestThemesDefineAllColors(t *testing.T) {
	for _, name := range Names() {
		theme := ByName(name)
		if theme == nil {
			t.Fatalf("ByName(%q) returned nil", name)
		}
		for _, c := range themeColors(theme) {
			t.Run(name+"/"+c.name, func(t *testing.T) {
				if c.color == "" {
					t.Errorf("Theme %s: %s is empty", name, c.name)
				}
			})
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want lipgloss.Color
	}{
		{"default", DefaultTheme().Primary},
		{"neon", NeonTheme().Primary},
		{"NEON", NeonTheme().Primary},
		{"", DefaultTheme().Primary},
		{"unknown", DefaultTheme().Primary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByName(tt.name).Primary; got != tt.want {
				t.Errorf("ByName(%q).Primary = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestThemesDiffer(t *testing.T) {
	defaultTheme := DefaultTheme()
	neonTheme := NeonTheme()

	if defaultTheme.Primary == neonTheme.Primary && defaultTheme.Level == neonTheme.Level {
		t.Error("Themes should have some different colors")
	}
}

func TestNewStylesWithNilTheme(t *testing.T) {
	styles := NewStyles(nil)
	if styles == nil {
		t.Fatal("NewStyles returned nil")
	}
	if styles.GetTheme() == nil {
		t.Error("GetTheme should return default theme when initialized with nil")
	}
}

func TestGetTheme(t *testing.T) {
	theme := NeonTheme()
	if NewStyles(theme).GetTheme() != theme {
		t.Error("GetTheme should return the same theme instance")
	}
}

func TestStylesRender(t *testing.T) {
	styles := NewStyles(DefaultTheme())

	testCases := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", styles.Header},
		{"Footer", styles.Footer},
		{"Title", styles.Title},
		{"Subtitle", styles.Subtitle},
		{"ListItemSelected", styles.ListItemSelected},
		{"CrumbHeader", styles.CrumbHeader},
		{"CrumbLevel", styles.CrumbLevel},
		{"CrumbCurrent", styles.CrumbCurrent},
		{"CrumbFocused", styles.CrumbFocused},
		{"Error", styles.Error},
		{"Spinner", styles.Spinner},
		{"Box", styles.Box},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := tc.style.Render("test"); len(result) < len("test") {
				t.Errorf("Style %s rendered %q", tc.name, result)
			}
		})
	}
}

func TestIconsFor(t *testing.T) {
	for _, nerd := range []bool{true, false} {
		icons := IconsFor(nerd)
		fields := map[string]string{
			"Member":    icons.Member,
			"Leaf":      icons.Leaf,
			"Level":     icons.Level,
			"Arrow":     icons.Arrow,
			"Search":    icons.Search,
			"Check":     icons.Check,
			"Cross":     icons.Cross,
			"Dimension": icons.Dimension,
			"Hierarchy": icons.Hierarchy,
		}
		for name, icon := range fields {
			if icon == "" {
				t.Errorf("IconsFor(%v).%s is empty", nerd, name)
			}
		}
	}

	if IconsFor(true) != Icons || IconsFor(false) != FallbackIcons {
		t.Error("IconsFor should select the icon set by font capability")
	}
}
