// Package config loads dangit's settings from flags, environment
// variables (DANGIT_*), and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. DANGIT_ORGANIZATION.
const EnvPrefix = "DANGIT"

// Keys.
const (
	KeyOrganization       = "organization"
	KeyToken              = "token"
	KeyGraphQLURL         = "graphql_url"
	KeyAPIURL             = "api_url"
	KeyMaxItems           = "max_items"
	KeyNotificationsLimit = "notifications_limit"
	KeyAllNotifications   = "all_notifications"
	KeyTimeout            = "timeout"
	KeyReveal             = "reveal"
	KeyTabTransition      = "tab_transition"
	KeyTick               = "tick"
	KeyLogFile            = "log_file"
	KeyLogLevel           = "log_level"
)

// Config holds the application configuration.
type Config struct {
	Organization       string
	Token              string
	GraphQLURL         string
	APIURL             string
	MaxItems           int
	NotificationsLimit int
	AllNotifications   bool
	Timeout            time.Duration

	Reveal        time.Duration // load-complete transition
	TabTransition time.Duration
	Tick          time.Duration // re-render interval while a transition plays

	LogFile  string
	LogLevel string
}

// New returns a viper instance with defaults and environment lookup set
// up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOrganization, "")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyGraphQLURL, "https://api.github.com/graphql")
	v.SetDefault(KeyAPIURL, "https://api.github.com")
	v.SetDefault(KeyMaxItems, 100)
	v.SetDefault(KeyNotificationsLimit, 50)
	v.SetDefault(KeyAllNotifications, false)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyReveal, 600*time.Millisecond)
	v.SetDefault(KeyTabTransition, 150*time.Millisecond)
	v.SetDefault(KeyTick, 16*time.Millisecond)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// searchPaths lists the directories searched for config.yaml.
func searchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "dangit"))
	}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dangit"))
	}
	return append(paths, ".")
}

// ReadFile reads path into v, or searches the default locations when path
// is empty. A missing file in the default locations is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", expanded, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths() {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load extracts and validates the configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Organization:       v.GetString(KeyOrganization),
		Token:              v.GetString(KeyToken),
		GraphQLURL:         v.GetString(KeyGraphQLURL),
		APIURL:             v.GetString(KeyAPIURL),
		MaxItems:           v.GetInt(KeyMaxItems),
		NotificationsLimit: v.GetInt(KeyNotificationsLimit),
		AllNotifications:   v.GetBool(KeyAllNotifications),
		Timeout:            v.GetDuration(KeyTimeout),
		Reveal:             v.GetDuration(KeyReveal),
		TabTransition:      v.GetDuration(KeyTabTransition),
		Tick:               v.GetDuration(KeyTick),
		LogFile:            v.GetString(KeyLogFile),
		LogLevel:           v.GetString(KeyLogLevel),
	}

	switch {
	case cfg.MaxItems <= 0:
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyMaxItems, cfg.MaxItems)
	case cfg.NotificationsLimit <= 0:
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyNotificationsLimit, cfg.NotificationsLimit)
	case cfg.Tick <= 0:
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyTick, cfg.Tick)
	case cfg.Timeout < 0 || cfg.Reveal < 0 || cfg.TabTransition < 0:
		return Config{}, errors.New("durations must not be negative")
	}

	if cfg.LogFile != "" {
		expanded, err := homedir.Expand(cfg.LogFile)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", KeyLogFile, err)
		}
		cfg.LogFile = expanded
	}
	return cfg, nil
}
