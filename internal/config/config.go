package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys, shared by the config file, SEISMIC2WORD_* env vars
// and command-line flags.
const (
	KeyPort            = "port"
	KeyAPIKey          = "api_key"
	KeyLogLevel        = "log_level"
	KeyMaxInputBytes   = "max_input_bytes"
	KeySessionTTL      = "session_ttl"
	KeyCleanupInterval = "cleanup_interval"
	KeyExportDir       = "export_dir"
)

const (
	envPrefix = "SEISMIC2WORD"
	fileName  = "seismic2word"
)

type Config struct {
	Port string

	// Auth: when set, /api requires "Authorization: Bearer <APIKey>".
	APIKey string

	LogLevel string

	// Input limits
	MaxInputBytes int64

	// Session state
	SessionTTL      time.Duration
	CleanupInterval time.Duration

	// Default directory for file exports.
	ExportDir string
}

// New returns a viper instance with defaults, env binding and, when
// present, a config file. An empty file looks for seismic2word.yaml in the
// working directory and ~/.config/seismic2word/.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyPort, "8090")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMaxInputBytes, 10<<20) // 10MB
	v.SetDefault(KeySessionTTL, time.Hour)
	v.SetDefault(KeyCleanupInterval, 5*time.Minute)
	v.SetDefault(KeyExportDir, ".")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads a Config from v, replacing non-positive limits with defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Port:            v.GetString(KeyPort),
		APIKey:          v.GetString(KeyAPIKey),
		LogLevel:        v.GetString(KeyLogLevel),
		MaxInputBytes:   v.GetInt64(KeyMaxInputBytes),
		SessionTTL:      v.GetDuration(KeySessionTTL),
		CleanupInterval: v.GetDuration(KeyCleanupInterval),
		ExportDir:       v.GetString(KeyExportDir),
	}

	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = 10 << 20
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	return cfg
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %q", c.Port)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
