package domain

// UserPreferences is the singleton-per-user settings record. Budget is a
// string-encoded number because the client keeps it as raw text input.
type UserPreferences struct {
	Budget      string `json:"budget"`
	IsDarkTheme bool   `json:"isDarkTheme"`
}

// DefaultPreferences returns the values used when no record exists yet.
func DefaultPreferences() UserPreferences {
	return UserPreferences{Budget: "", IsDarkTheme: false}
}
