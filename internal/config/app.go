package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MINEFIELD"

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxCells      int           `mapstructure:"max_cells"`
}

type Token struct {
	Secret   string        `mapstructure:"secret"`
	Lifetime time.Duration `mapstructure:"lifetime"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Addr            string        `mapstructure:"addr"`
	Development     bool          `mapstructure:"development"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Log             Log           `mapstructure:"log"`
	Session         Session       `mapstructure:"session"`
	Token           Token         `mapstructure:"token"`
	Cors            Cors          `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("development", false)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)
	v.SetDefault("session.max_cells", 10_000)
	v.SetDefault("token.secret", "")
	v.SetDefault("token.lifetime", 24*time.Hour)
	v.SetDefault("cors.allowed_origins", []string{})
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("minefield", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file path (json, yaml or toml)")
	fs.String("addr", ":8080", "address to listen on")
	fs.Bool("development", false, "development mode: debug logs, colored output")
	fs.String("log.level", "", "log level (defaults to debug in development, info otherwise)")
	fs.String("log.file", "", "also write logs to this file, rotated by size")
	return fs
}

// Load reads the configuration from, in order of precedence, command line
// args, MINEFIELD_* env variables, the file passed with --config and defaults.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("unable to bind flags: %w", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, fmt.Errorf("addr must not be empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.sweep_interval must be positive"))
	}
	if c.Session.MaxCells < 1 {
		errs = append(errs, fmt.Errorf("session.max_cells must be at least 1"))
	}
	if c.Token.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("token.lifetime must be positive"))
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c Config) Production() bool {
	return !c.Development
}

// Fields lists the settings worth logging at startup. Secrets are left out.
func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"addr":                   c.Addr,
		"development":            c.Development,
		"shutdown_timeout":       c.ShutdownTimeout.String(),
		"log_level":              c.Log.Level,
		"log_file":               c.Log.File,
		"session_ttl":            c.Session.TTL.String(),
		"session_sweep_interval": c.Session.SweepInterval.String(),
		"session_max_cells":      c.Session.MaxCells,
		"token_lifetime":         c.Token.Lifetime.String(),
		"token_secret_set":       c.Token.Secret != "",
		"cors_allowed_origins":   c.Cors.AllowedOrigins,
	}
}
