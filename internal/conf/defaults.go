// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "plant-ml")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/plant-ml.log")

	viper.SetDefault("classifier.modelpath", "models/plant_disease_model.tflite")
	viper.SetDefault("classifier.threshold", 0.5)
	viper.SetDefault("classifier.usexnnpack", true)
	viper.SetDefault("classifier.threads", 0)

	viper.SetDefault("genai.apikey", "")
	viper.SetDefault("genai.model", "gemini-1.5-flash")

	viper.SetDefault("weather.defaultcity", "Bangalore")
	viper.SetDefault("weather.forecastdays", 7)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)

	viper.SetDefault("security.sessionsecret", "")
	viper.SetDefault("security.sessionduration", 86400)
	viper.SetDefault("security.allowanonymous", true)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "plantml.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "plantml")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "plantml")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
}
