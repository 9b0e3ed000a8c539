// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// ProvidersConfig holds credentials and endpoints for the external data and
// generation providers. The three API keys are required at startup.
type ProvidersConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	GeminiBaseURL      string `mapstructure:"gemini_base_url"`
	GeminiModel        string `mapstructure:"gemini_model"`
	WeatherAPIKey      string `mapstructure:"weather_api_key"`
	WeatherBaseURL     string `mapstructure:"weather_base_url"`
	TicketmasterAPIKey string `mapstructure:"ticketmaster_api_key"`
	TicketmasterURL    string `mapstructure:"ticketmaster_base_url"`
}

// GeneratorConfig bounds the external generation call.
type GeneratorConfig struct {
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// RedisConfig configures the optional weather cache.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
