package domain

import "errors"

// ThemeMode is the user's presentation theme. It is stored and served, never computed on.
type ThemeMode string

const (
	ThemeSystem ThemeMode = "SYSTEM"
	ThemeLight  ThemeMode = "LIGHT"
	ThemeDark   ThemeMode = "DARK"
)

// Preferences holds user-level settings
type Preferences struct {
	BaseCurrency string
	Theme        ThemeMode
}

// DefaultPreferences returns the settings used before the user changes anything
func DefaultPreferences() Preferences {
	return Preferences{
		BaseCurrency: BaseRateCurrency,
		Theme:        ThemeSystem,
	}
}

// Validate ensures the preferences adhere to domain rules
func (p *Preferences) Validate() error {
	if !isCurrencyCode(p.BaseCurrency) {
		return errors.New("base currency must be a 3-letter code")
	}

	switch p.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
	default:
		return errors.New("theme must be SYSTEM, LIGHT or DARK")
	}

	return nil
}
