// Package config resolves ftl settings from flags, the environment, a .env
// file and ftl.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "FTL"
	FileName  = "ftl"

	DefaultDatabase = "fts/ftl.db"
)

var (
	DefaultFeatures     = []string{"fts"}
	DefaultInteractions = []string{"fts/interactions"}
)

type Config struct {
	Features     []string `mapstructure:"features"`
	Interactions []string `mapstructure:"interactions"`
	Database     string   `mapstructure:"database"`
	LogLevel     string   `mapstructure:"log-level"`
	LogFile      string   `mapstructure:"log-file"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load reads settings for the project in dir. flags may be nil; a "config"
// flag names an explicit config file.
func Load(dir string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("features", append([]string(nil), DefaultFeatures...))
	v.SetDefault("interactions", append([]string(nil), DefaultInteractions...))
	v.SetDefault("database", DefaultDatabase)
	v.SetDefault("log-level", "")
	v.SetDefault("log-file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for _, name := range []string{"database", "log-level", "log-file"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.resolve(dir)
	return &cfg, nil
}

// resolve makes relative paths relative to dir.
func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, p := range c.Features {
		c.Features[i] = abs(p)
	}
	for i, p := range c.Interactions {
		c.Interactions[i] = abs(p)
	}
	c.Database = abs(c.Database)
}

// loadDotEnv adds FTL_ variables from path to the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	env, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for key, value := range env {
		if !strings.HasPrefix(key, EnvPrefix+"_") {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return nil
}
