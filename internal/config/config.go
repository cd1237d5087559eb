package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// Application identity used for directories and the env prefix
const (
	AppName        = "yt-queue"
	EnvPrefix      = "YTQUEUE"
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// Default values
const (
	DefaultMaxParallel       = 3
	DefaultResolution        = "720p"
	DefaultProgressInterval  = 500 * time.Millisecond
	DefaultFetchTimeout      = 60 * time.Second
	DefaultCacheTTL          = 7 * 24 * time.Hour
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultLogMaxSize        = 10
	DefaultLogMaxBackups     = 3
	DefaultLogMaxAge         = 28
	fallbackDownloadDir      = "/tmp/downloads"
	resolutionValidationName = "resolution"
)

// LoggingConfig controls the slog handler and file rotation
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file"`                         // empty logs to stderr
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"` // files
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`     // days
	Compress   bool   `mapstructure:"compress"`
	Color      bool   `mapstructure:"color"`
}

// Config is the application configuration. It is built once at startup and
// passed to the components that need it.
type Config struct {
	DownloadDir       string        `mapstructure:"download_dir" validate:"required"`
	DefaultResolution string        `mapstructure:"default_resolution" validate:"omitempty,resolution"`
	MaxParallel       int           `mapstructure:"max_parallel" validate:"min=1,max=10"`
	FFmpegPath        string        `mapstructure:"ffmpeg_path"`
	CacheDir          string        `mapstructure:"cache_dir" validate:"required"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	ClearCacheOnExit  bool          `mapstructure:"clear_cache_on_exit"`
	InstallYTDLP      bool          `mapstructure:"install_ytdlp"`
	ProgressInterval  time.Duration `mapstructure:"progress_interval" validate:"gt=0"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	PlaylistLimit     int           `mapstructure:"playlist_limit" validate:"gte=0"`
	Logging           LoggingConfig `mapstructure:"logging"`
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("download_dir", "")
	v.SetDefault("default_resolution", DefaultResolution)
	v.SetDefault("max_parallel", DefaultMaxParallel)
	v.SetDefault("ffmpeg_path", "")
	v.SetDefault("cache_dir", "")
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("clear_cache_on_exit", false)
	v.SetDefault("install_ytdlp", false)
	v.SetDefault("progress_interval", DefaultProgressInterval)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("playlist_limit", 0)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.max_age", DefaultLogMaxAge)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.color", true)
}

// Load reads defaults, then the YAML file, then YTQUEUE_* environment
// variables. An empty path looks for config.yaml in the user config
// directory and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileType)
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// Decode unmarshals, fills directory fallbacks and validates
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		// Built-in defaults always validate
		panic(err)
	}
	return cfg
}

// Validate checks field constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation(resolutionValidationName, validateResolution); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func validateResolution(fl validator.FieldLevel) bool {
	_, err := model.ParseResolution(fl.Field().String())
	return err == nil
}

func (c *Config) applyFallbacks() {
	if c.DownloadDir == "" {
		dir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			dir = fallbackDownloadDir
		}
		c.DownloadDir = dir
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
}

// ConfigDir returns the directory searched for config.yaml
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// DefaultLogFile returns the log path used when logging.file is "default"
func DefaultLogFile() string {
	return filepath.Join(defaultStateDir(), AppName, AppName+".log")
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".local", "state")
}
