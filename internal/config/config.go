package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Fallback FallbackConfig `mapstructure:"fallback"`
}

// BackendConfig describes the remote health-data API
type BackendConfig struct {
	URL            string `mapstructure:"url"`
	RequestTimeout string `mapstructure:"request_timeout"` // Parse to time.Duration
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryDelay     string `mapstructure:"retry_delay"`

	// StrictReads surfaces read-path failures instead of degrading to
	// empty data. Intended for tests.
	StrictReads bool `mapstructure:"strict_reads"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FallbackConfig controls offline behavior when the backend is down
type FallbackConfig struct {
	// MockOnUnavailable makes uploads succeed against the built-in mock
	// provider when the liveness probe fails (production behavior). When
	// false the upload surfaces a network error instead.
	MockOnUnavailable bool  `mapstructure:"mock_on_unavailable"`
	RandomSeed        int64 `mapstructure:"random_seed"`
	SyntheticDays     int   `mapstructure:"synthetic_days"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()

	// Override specific values from env
	viper.BindEnv("backend.url", "HEALTHDASH_BACKEND_URL")
	viper.BindEnv("backend.strict_reads", "HEALTHDASH_STRICT_READS")
	viper.BindEnv("database.path", "HEALTHDASH_DATABASE_PATH")
	viper.BindEnv("logging.level", "LOG_LEVEL")
	viper.BindEnv("fallback.mock_on_unavailable", "HEALTHDASH_MOCK_ON_UNAVAILABLE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, defaults + env carry the day
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("backend.url", "http://localhost:8000")
	viper.SetDefault("backend.request_timeout", "30s")
	viper.SetDefault("backend.max_retries", 3)
	viper.SetDefault("backend.retry_delay", "1s")
	viper.SetDefault("backend.strict_reads", false)

	viper.SetDefault("database.path", "./data/healthdash.db")
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("database.max_connections", 5)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("fallback.mock_on_unavailable", true)
	viper.SetDefault("fallback.random_seed", 0)
	viper.SetDefault("fallback.synthetic_days", 30)
}
