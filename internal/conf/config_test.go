package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestSettings() *Settings {
	s := &Settings{}
	s.Classifier.Threshold = 0.5
	s.Weather.ForecastDays = 7
	s.Security.SessionDuration = 3600
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "test.db"
	return s
}

func TestValidateSettingsDefaults(t *testing.T) {
	s := validTestSettings()

	require.NoError(t, ValidateSettings(s))

	// A session secret is generated when none is configured
	assert.NotEmpty(t, s.Security.SessionSecret)
}

func TestValidateSettingsThresholdRange(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantErr   bool
	}{
		{"zero", 0.0, false},
		{"half", 0.5, false},
		{"one", 1.0, false},
		{"negative", -0.1, true},
		{"above one", 1.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validTestSettings()
			s.Classifier.Threshold = tt.threshold
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSettingsExclusiveOutputs(t *testing.T) {
	s := validTestSettings()
	s.Output.MySQL.Enabled = true
	s.Output.MySQL.Username = "plantml"

	assert.Error(t, ValidateSettings(s))
}

func TestValidateSettingsMySQLRequiresUsername(t *testing.T) {
	s := validTestSettings()
	s.Output.SQLite.Enabled = false
	s.Output.MySQL.Enabled = true
	s.Output.MySQL.Username = ""

	assert.Error(t, ValidateSettings(s))
}

func TestGenerateRandomSecret(t *testing.T) {
	a := GenerateRandomSecret()
	b := GenerateRandomSecret()

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
