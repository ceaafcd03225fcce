// ABOUTME: Display preferences model and theme palette.
// ABOUTME: Holds theme color, notification flag, and daily goal with defaults.
package models

// Theme names a display palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeBlue  Theme = "blue"
	ThemeGreen Theme = "green"
)

// ThemeColors maps themes to their background color.
var ThemeColors = map[Theme]string{
	ThemeLight: "#ffffff",
	ThemeDark:  "#333333",
	ThemeBlue:  "#3498db",
	ThemeGreen: "#2ecc71",
}

// AllThemes lists themes in display order.
var AllThemes = []Theme{ThemeLight, ThemeDark, ThemeBlue, ThemeGreen}

// IsPremiumTheme reports whether selecting t requires a subscription.
func IsPremiumTheme(t Theme) bool {
	return t == ThemeBlue || t == ThemeGreen
}

const (
	DefaultDailyGoal = 5
	MaxDailyGoal     = 100
)

// Options are the user's display preferences.
type Options struct {
	ThemeColor    string `json:"theme_color" validate:"required|in:light,dark,blue,green"`
	Notifications bool   `json:"notifications"`
	DailyGoal     int    `json:"daily_goal" validate:"required|int|min:1|max:100"`
}

// DefaultOptions returns the settings used before anything is saved.
func DefaultOptions() Options {
	return Options{
		ThemeColor:    string(ThemeLight),
		Notifications: true,
		DailyGoal:     DefaultDailyGoal,
	}
}

// Theme returns the typed theme.
func (o Options) Theme() Theme {
	return Theme(o.ThemeColor)
}
