package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Env    string       `yaml:"env" mapstructure:"env"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Auth   AuthConfig   `yaml:"auth" mapstructure:"auth"`
	Client ClientConfig `yaml:"client" mapstructure:"client"`
	Import ImportConfig `yaml:"import" mapstructure:"import"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	LoginRate      float64  `yaml:"login_rate" mapstructure:"login_rate"`
	LoginBurst     int      `yaml:"login_burst" mapstructure:"login_burst"`
}

// AuthConfig configures session tokens and the credential table.
// Users holds predefined credentials in "user:pass,user2:pass2" form.
type AuthConfig struct {
	Secret       string `yaml:"secret" mapstructure:"secret"`
	Users        string `yaml:"users" mapstructure:"users"`
	CookieName   string `yaml:"cookie_name" mapstructure:"cookie_name"`
	TokenTTLDays int    `yaml:"token_ttl_days" mapstructure:"token_ttl_days"`
}

// ClientConfig configures the dashboard API client and pager.
type ClientConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	PageSize   int    `yaml:"page_size" mapstructure:"page_size"`
	DebounceMS int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// ImportConfig configures the CSV bulk loader.
type ImportConfig struct {
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REGISTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "development")
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.login_rate", 5)
	v.SetDefault("server.login_burst", 10)
	v.SetDefault("auth.users", "admin:admin123")
	v.SetDefault("auth.cookie_name", "auth_token")
	v.SetDefault("auth.token_ttl_days", 7)
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.page_size", 100)
	v.SetDefault("client.debounce_ms", 300)
	v.SetDefault("import.batch_size", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
