package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
// Platform credentials are optional at startup: the import adapters read
// them at call time and report a typed failure when they are missing.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	SteamAPIKey string `mapstructure:"STEAM_API_KEY"`

	EpicClientID     string `mapstructure:"EPIC_CLIENT_ID"`
	EpicClientSecret string `mapstructure:"EPIC_CLIENT_SECRET"`
	EpicDeploymentID string `mapstructure:"EPIC_DEPLOYMENT_ID"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("EPIC_DEPLOYMENT_ID", "prod")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
