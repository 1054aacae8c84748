package conf

import (
	"fmt"
)

// ValidateSettings checks the loaded configuration for values the
// application cannot run with and fills in generated defaults.
func ValidateSettings(settings *Settings) error {
	if settings.Classifier.Threshold < 0 || settings.Classifier.Threshold > 1 {
		return fmt.Errorf("classifier threshold must be within [0, 1], got %f", settings.Classifier.Threshold)
	}

	if settings.Weather.ForecastDays < 1 || settings.Weather.ForecastDays > 16 {
		return fmt.Errorf("weather forecast days must be within [1, 16], got %d", settings.Weather.ForecastDays)
	}

	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return fmt.Errorf("only one database output can be enabled at a time")
	}

	if settings.Output.MySQL.Enabled && settings.Output.MySQL.Username == "" {
		return fmt.Errorf("mysql output requires a username")
	}

	if settings.Security.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive, got %d", settings.Security.SessionDuration)
	}

	// An empty session secret means sessions would not survive restarts,
	// which is acceptable; generate one so cookies are at least signed.
	if settings.Security.SessionSecret == "" {
		settings.Security.SessionSecret = GenerateRandomSecret()
	}

	return nil
}
