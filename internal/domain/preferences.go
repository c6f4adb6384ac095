package domain

// Theme is the display color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// FontSize is the reading font size.
type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// FontStyle is the reading font family.
type FontStyle string

const (
	FontStyleDefault FontStyle = "default"
	FontStyleSerif   FontStyle = "serif"
	FontStyleMono    FontStyle = "mono"
)

// LayoutWidth is the content column width.
type LayoutWidth string

const (
	LayoutWidthStandard  LayoutWidth = "standard"
	LayoutWidthFullWidth LayoutWidth = "fullWidth"
)

// UserPreferences carries a user's display preferences. It has no identity of
// its own; it is always scoped to a user id at fetch time.
type UserPreferences struct {
	Theme       Theme       `json:"theme"`
	FontSize    FontSize    `json:"fontSize"`
	FontStyle   FontStyle   `json:"fontStyle"`
	LayoutWidth LayoutWidth `json:"layoutWidth"`
}

// DefaultPreferences returns the preferences used when a user has none stored.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Theme:       ThemeDark,
		FontSize:    FontSizeMedium,
		FontStyle:   FontStyleDefault,
		LayoutWidth: LayoutWidthStandard,
	}
}

// Normalize replaces unknown enum values with their defaults.
func (p UserPreferences) Normalize() UserPreferences {
	switch p.Theme {
	case ThemeDark, ThemeLight:
	default:
		p.Theme = ThemeDark
	}
	switch p.FontSize {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge:
	default:
		p.FontSize = FontSizeMedium
	}
	switch p.FontStyle {
	case FontStyleDefault, FontStyleSerif, FontStyleMono:
	default:
		p.FontStyle = FontStyleDefault
	}
	switch p.LayoutWidth {
	case LayoutWidthStandard, LayoutWidthFullWidth:
	default:
		p.LayoutWidth = LayoutWidthStandard
	}
	return p
}
