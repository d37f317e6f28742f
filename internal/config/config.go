// Package config loads refmark settings from defaults, an optional YAML file
// and REFMARK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/sprite-ai/refmark/internal/logging"
)

// Sentinel validation errors.
var (
	ErrInvalidPort      = errors.New("invalid server port")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrEmptyArrow       = errors.New("display arrow must not be empty")
)

// Default configuration values.
const (
	DefaultAddr      = "127.0.0.1"
	DefaultPort      = 7420
	DefaultLogLevel  = "info"
	DefaultLogFormat = logging.FormatText
	DefaultStorePath = "refmark.db"
	DefaultArrow     = " -> "
	maxPort          = 65535
)

// EnvPrefix prefixes every environment override, e.g. REFMARK_SERVER_PORT.
const EnvPrefix = "REFMARK"

// Config holds all refmark settings.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Display DisplayConfig `mapstructure:"display"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures `refmark serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Port int    `mapstructure:"port"`
}

// Listen returns the host:port to listen on.
func (s ServerConfig) Listen() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

// StoreConfig configures the entry database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DisplayConfig configures label rendering.
type DisplayConfig struct {
	Arrow string `mapstructure:"arrow"`
}

// Load reads configuration. An explicit configPath must exist; without one,
// refmark.yaml is looked up in the working directory and ~/.config/refmark,
// and its absence is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("refmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/refmark")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server:  ServerConfig{Addr: DefaultAddr, Port: DefaultPort},
		Store:   StoreConfig{Path: DefaultStorePath},
		Display: DisplayConfig{Arrow: DefaultArrow},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("display.arrow", d.Display.Arrow)
}

// Validate checks cfg and returns the first problem found.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case logging.FormatText, logging.FormatJSON, logging.FormatLogfmt:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Log.Format)
	}

	if cfg.Display.Arrow == "" {
		return ErrEmptyArrow
	}
	return nil
}
