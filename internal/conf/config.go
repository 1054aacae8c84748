// Package conf loads and validates the application configuration from
// config.yaml and environment variables using viper.
package conf

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
}

// ClassifierConfig holds the local TFLite model configuration
type ClassifierConfig struct {
	ModelPath string  // path to the plant disease model file, empty disables the classifier
	Threshold float64 // minimum confidence for a model-accepted detection, strict greater-than
	UseXNNPACK bool   // true to enable XNNPACK delegate
	Threads   int     // number of CPU threads for inference, 0 for automatic
}

// GenAIConfig holds the Gemini API configuration
type GenAIConfig struct {
	APIKey string // Gemini API key
	Model  string // backing model id, configuration not contract
}

// WeatherConfig holds the Open-Meteo configuration
type WeatherConfig struct {
	DefaultCity  string // city used when the request does not name one
	ForecastDays int    // number of daily forecast entries requested
}

// Settings contains all runtime configuration
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version string `yaml:"-"` // Version from build

	Main struct {
		Name string    // instance name, used in logs
		Log  LogConfig // main logging configuration
	}

	Classifier ClassifierConfig // local classifier configuration

	GenAI GenAIConfig // Gemini configuration

	Weather WeatherConfig // weather lookup configuration

	WebServer struct {
		Debug   bool   // true to enable debug mode
		Enabled bool   // true to enable web server
		Port    string // port for web server
	}

	Security struct {
		SessionSecret    string // cookie session signing secret, generated when empty
		SessionDuration  int    // session lifetime in seconds
		AllowAnonymous   bool   // true to allow unauthenticated detection requests
	}

	Output struct {
		SQLite struct {
			Enabled bool   // true to enable sqlite output
			Path    string // path to sqlite database
		}

		MySQL struct {
			Enabled  bool   // true to enable mysql output
			Username string // username for mysql database
			Password string // password for mysql database
			Database string // database name for mysql database
			Host     string // host for mysql database
			Port     string // port for mysql database
		}
	}
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance and stores it as the package singleton.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	if configDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(configDir, "plant-ml"))
	}

	// Environment overrides: PLANTML_GENAI_APIKEY etc., plus the
	// conventional GEMINI_API_KEY.
	viper.SetEnvPrefix("plantml")
	viper.AutomaticEnv()
	_ = viper.BindEnv("genai.apikey", "PLANTML_GENAI_APIKEY", "GEMINI_API_KEY")

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults plus environment apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// Setting returns the current settings instance
func Setting() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// GenerateRandomSecret generates a URL-safe random string suitable for
// session signing.
func GenerateRandomSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// rand.Read failing means the platform entropy source is broken
		panic(fmt.Sprintf("failed to generate random secret: %v", err))
	}
	return hex.EncodeToString(bytes)
}
