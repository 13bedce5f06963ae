package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// LAMDA backend (the ERP this engine talks to)
	BackendURL            string `mapstructure:"LAMDA_API_URL"`
	GatewayTimeoutSeconds int    `mapstructure:"GATEWAY_TIMEOUT_SECONDS"`

	// Redis — optional shared lookup cache for backend GETs. Empty
	// disables it.
	RedisURL             string `mapstructure:"REDIS_URL"`
	GatewayCacheTTLSecs  int    `mapstructure:"GATEWAY_CACHE_TTL_SECONDS"`

	// Cart assembly
	ArmadoConcurrencia int `mapstructure:"ARMADO_CONCURRENCIA"`

	// Circuit breaker around the backend
	CBFailureThreshold int `mapstructure:"CB_FAILURE_THRESHOLD"`
	CBSuccessThreshold int `mapstructure:"CB_SUCCESS_THRESHOLD"`
	CBOpenTimeoutSecs  int `mapstructure:"CB_OPEN_TIMEOUT_SECONDS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LAMDA_API_URL", "http://localhost:9000")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 15)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("GATEWAY_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("ARMADO_CONCURRENCIA", 1)
	viper.SetDefault("CB_FAILURE_THRESHOLD", 5)
	viper.SetDefault("CB_SUCCESS_THRESHOLD", 2)
	viper.SetDefault("CB_OPEN_TIMEOUT_SECONDS", 30)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
