// Package config loads sbpconv settings from flags, environment and an
// optional sbpconv.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sbpconv/internal/plot"
)

// Config holds the resolved settings.
type Config struct {
	Port           int
	LogLevel       string
	Preview        plot.Options
	MaxUploadBytes int64
	StoreCapacity  int
	File           string // Config file actually read, if any
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"port":      "port",
	"log-level": "log_level",
}

func setDefaults(v *viper.Viper) {
	def := plot.DefaultOptions()
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("preview.width", def.Width)
	v.SetDefault("preview.height", def.Height)
	v.SetDefault("preview.title", def.Title)
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("store.capacity", 32)
}

// Load resolves the configuration. flags may be nil. When the "config" flag
// names a file it must exist; otherwise sbpconv.yaml is optional.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SBPCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind --%s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("sbpconv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sbpconv")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	cfg := &Config{
		Port:     v.GetInt("port"),
		LogLevel: v.GetString("log_level"),
		Preview: plot.Options{
			Width:  v.GetInt("preview.width"),
			Height: v.GetInt("preview.height"),
			Title:  v.GetString("preview.title"),
		},
		MaxUploadBytes: v.GetInt64("upload.max_bytes"),
		StoreCapacity:  v.GetInt("store.capacity"),
		File:           v.ConfigFileUsed(),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.StoreCapacity < 1 {
		cfg.StoreCapacity = 1
	}
	return cfg, nil
}
