package theme

import "io"

// Manager handles theme selection and management
type Manager struct {
	currentTheme Theme
}

// NewManager creates a new theme manager with default settings
func NewManager(t Theme) *Manager {
	return &Manager{
		currentTheme: t,
	}
}

// NewManagerByName creates a manager for a configured theme name
func NewManagerByName(name string, w io.Writer) *Manager {
	return NewManager(New(Name(name), w))
}

// GetCurrentTheme returns the currently active theme
func (m *Manager) GetCurrentTheme() Theme {
	return m.currentTheme
}
