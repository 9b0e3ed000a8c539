// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "itinerary-planner/internal/common/errors"
)

// Load reads config.yaml (if present), merges environment-specific overrides
// and environment variables, applies defaults, and validates that the
// required provider credentials are set.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PROVIDERS_GEMINI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "itinerary-planner"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Providers.GeminiBaseURL == "" {
		cfg.Providers.GeminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Providers.GeminiModel == "" {
		cfg.Providers.GeminiModel = "gemini-2.0-flash-exp"
	}
	if cfg.Providers.WeatherBaseURL == "" {
		cfg.Providers.WeatherBaseURL = "http://api.weatherapi.com/v1"
	}
	if cfg.Providers.TicketmasterURL == "" {
		cfg.Providers.TicketmasterURL = "https://app.ticketmaster.com/discovery/v2"
	}
	if cfg.Generator.MaxRetries == 0 {
		cfg.Generator.MaxRetries = 3
	}
	if cfg.Generator.InitialBackoff == 0 {
		cfg.Generator.InitialBackoff = time.Second
	}
	if cfg.Generator.AttemptTimeout == 0 {
		cfg.Generator.AttemptTimeout = 60 * time.Second
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// overrideFromEnv fills credentials from plain environment variables when the
// viper path did not pick them up.
func overrideFromEnv(cfg *Config) {
	if cfg.Providers.GeminiAPIKey == "" {
		cfg.Providers.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Providers.WeatherAPIKey == "" {
		cfg.Providers.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	}
	if cfg.Providers.TicketmasterAPIKey == "" {
		cfg.Providers.TicketmasterAPIKey = os.Getenv("TICKETMASTER_API_KEY")
	}
}

// validateConfig checks the startup-fatal credential requirements.
func validateConfig(cfg *Config) error {
	var missing []string
	if cfg.Providers.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if cfg.Providers.WeatherAPIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if cfg.Providers.TicketmasterAPIKey == "" {
		missing = append(missing, "TICKETMASTER_API_KEY")
	}
	if len(missing) > 0 {
		return apperrors.NewConfigMissingError(missing)
	}
	return nil
}
