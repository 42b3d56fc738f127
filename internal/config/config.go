// Package config provides Viper-based hierarchical configuration and the
// logging/environment bootstrap used by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/csv-classify/internal/normalize"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var once sync.Once

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Classification struct {
		ConfidenceThreshold float64  `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		CreditIndicators    []string `mapstructure:"credit_indicators" yaml:"credit_indicators"`
		DebitIndicators     []string `mapstructure:"debit_indicators" yaml:"debit_indicators"`
	} `mapstructure:"classification" yaml:"classification"`

	Files struct {
		Rules string `mapstructure:"rules" yaml:"rules"`
	} `mapstructure:"files" yaml:"files"`
}

// InitializeConfig loads configuration hierarchically: built-in defaults,
// then an optional config.yaml, then CSVCLASSIFY_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.csv-classify")
	v.AddConfigPath(".csv-classify")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CSVCLASSIFY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken file is not fatal.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("classification.confidence_threshold", 0.7)
	v.SetDefault("classification.credit_indicators", normalize.DefaultCreditIndicators)
	v.SetDefault("classification.debit_indicators", normalize.DefaultDebitIndicators)

	v.SetDefault("files.rules", "rules.yaml")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Classification.ConfidenceThreshold < 0.0 || config.Classification.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("classification.confidence_threshold must be between 0.0 and 1.0, got: %f",
			config.Classification.ConfidenceThreshold)
	}

	return nil
}

// ConfigureLogging builds a logrus logger from the Config.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// LoadEnv loads environment variables from a .env file if one exists in
// the current or parent directory.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}
