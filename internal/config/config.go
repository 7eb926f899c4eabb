package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	OpenAI      OpenAIConfig   `mapstructure:"openai"`
	SSH         SSHConfig      `mapstructure:"ssh"`
	Executor    ExecutorConfig `mapstructure:"executor"`
	Chart       ChartConfig    `mapstructure:"chart"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password" json:"-" yaml:"-"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

type RedisConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Password       string `mapstructure:"password" json:"-" yaml:"-"`
	DB             int    `mapstructure:"db"`
	TranslationTTL string `mapstructure:"translation_ttl"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key" json:"-" yaml:"-"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// SSHConfig describes the optional tunnel for reaching a remote database.
type SSHConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password" json:"-" yaml:"-"`
	KeyFile    string `mapstructure:"key_file"`
	RemoteHost string `mapstructure:"remote_host"`
	RemotePort int    `mapstructure:"remote_port"`
}

type ExecutorConfig struct {
	RowCap           int    `mapstructure:"row_cap"`
	StatementTimeout string `mapstructure:"statement_timeout"`
}

type ChartConfig struct {
	PieMaxRows           int      `mapstructure:"pie_max_rows"`
	DistributionKeywords []string `mapstructure:"distribution_keywords"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Credentials always come from the environment in deployments.
	if err := viper.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY: %w", err)
	}
	if err := viper.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD: %w", err)
	}
	if err := viper.BindEnv("ssh.password", "SSH_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind SSH_PASSWORD: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(config *Config) error {
	if config.Environment != "development" && config.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY environment variable is required in non-development environments")
	}
	if config.Executor.RowCap <= 0 {
		return fmt.Errorf("executor row cap must be positive, got %d", config.Executor.RowCap)
	}
	for name, value := range map[string]string{
		"executor.statement_timeout": config.Executor.StatementTimeout,
		"openai.timeout":             config.OpenAI.Timeout,
		"redis.translation_ttl":      config.Redis.TranslationTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	if config.SSH.Enabled {
		if config.SSH.Host == "" || config.SSH.User == "" {
			return errors.New("ssh tunnel enabled but host or user missing")
		}
		if config.SSH.Password == "" && config.SSH.KeyFile == "" {
			return errors.New("ssh tunnel enabled but no password or key file configured")
		}
	}
	return nil
}

// Duration parses a config duration string with a fallback for empty or
// malformed values.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"*"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "trading")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_conns", 10)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.translation_ttl", "15m")

	viper.SetDefault("openai.model", "gpt-4-turbo")
	viper.SetDefault("openai.timeout", "30s")

	viper.SetDefault("ssh.enabled", false)
	viper.SetDefault("ssh.port", 22)
	viper.SetDefault("ssh.remote_port", 5432)

	viper.SetDefault("executor.row_cap", 500)
	viper.SetDefault("executor.statement_timeout", "15s")

	viper.SetDefault("chart.pie_max_rows", 12)
	viper.SetDefault("chart.distribution_keywords", []string{"distribution", "share", "breakdown", "proportion", "split"})
}
