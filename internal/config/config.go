// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON config file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `mapstructure:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `mapstructure:"database_dsn"`

	// Config is the path to the Config file.
	Config string `mapstructure:"-"`

	// JWTSecret signs bearer tokens.
	JWTSecret string `mapstructure:"jwt_secret"`

	// JWTTTL is the lifetime of an issued token.
	JWTTTL time.Duration `mapstructure:"jwt_ttl"`

	// AIKey is the Perplexity API key; empty disables the AI endpoints.
	AIKey string `mapstructure:"perplexity_api_key"`

	// AIModel is the completion model name.
	AIModel string `mapstructure:"ai_model"`

	// AIBaseURL is the root of the completion API.
	AIBaseURL string `mapstructure:"ai_base_url"`

	// AITimeout bounds every call to the completion API.
	AITimeout time.Duration `mapstructure:"ai_timeout"`

	// LogLevel is the zap level name.
	LogLevel string `mapstructure:"log_level"`
}

const defaultConfigPath = "config.json"

var defaults = map[string]any{
	"server_address":     "localhost:5001",
	"database_dsn":       "",
	"jwt_secret":         "",
	"jwt_ttl":            time.Hour,
	"perplexity_api_key": "",
	"ai_model":           "sonar",
	"ai_base_url":        "https://api.perplexity.ai",
	"ai_timeout":         30 * time.Second,
	"log_level":          "info",
}

var envKeys = map[string]string{
	"server_address":     "SERVER_ADDRESS",
	"database_dsn":       "DATABASE_DSN",
	"jwt_secret":         "JWT_SECRET",
	"jwt_ttl":            "JWT_TTL",
	"perplexity_api_key": "PERPLEXITY_API_KEY",
	"ai_model":           "AI_MODEL",
	"ai_base_url":        "AI_BASE_URL",
	"ai_timeout":         "AI_TIMEOUT",
	"log_level":          "LOG_LEVEL",
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"a": "server_address",
	"d": "database_dsn",
	"l": "log_level",
}

// Parse parses the process arguments and environment. It exits the process
// on invalid configuration.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return options
}

// Load builds Options from args, the environment and the config file.
// Precedence, lowest first: defaults, config file, environment, flags that
// were set explicitly.
func Load(args []string) (*Options, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.String("a", "localhost:5001", "run on ip:port server")
	fs.String("d", "", "db address")
	fs.String("l", "info", "log level")
	var configPath string
	fs.StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	fs.StringVar(&configPath, "c", defaultConfigPath, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// CONFIG picks the file unless -c or -config was given.
	pathSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "c" {
			pathSet = true
		}
	})
	if p := os.Getenv("CONFIG"); p != "" && !pathSet {
		configPath = p
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	options := &Options{}
	if err := v.Unmarshal(options); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	options.Config = configPath

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// Validate reports settings the server cannot start with.
func (o *Options) Validate() error {
	var errs []error
	if o.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret (JWT_SECRET) must be set"))
	}
	if o.JWTTTL <= 0 {
		errs = append(errs, errors.New("jwt_ttl must be positive"))
	}
	if o.AITimeout <= 0 {
		errs = append(errs, errors.New("ai_timeout must be positive"))
	}
	return errors.Join(errs...)
}
