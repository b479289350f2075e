package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/vango-dev/graft/internal/errors"
)

const (
	// ConfigName is the configuration file name without extension.
	ConfigName = "graft"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = ConfigName + ".yaml"

	// EnvPrefix prefixes environment overrides, e.g. GRAFT_SERVER_ADDR.
	EnvPrefix = "GRAFT"

	// DefaultAddr is the default live server address.
	DefaultAddr = ":7070"

	// DefaultLivePath is the default websocket endpoint.
	DefaultLivePath = "/live"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "graft"

	// DefaultS3Region is used for s3:// documents when no region is set.
	DefaultS3Region = "us-east-1"
)

// Config is the complete graft configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	S3      S3Config      `mapstructure:"s3"`

	configPath string
}

// ServerConfig configures the live server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Path is the websocket endpoint.
	Path string `mapstructure:"path"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// LogConfig configures slog output.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`
}

// RenderConfig configures HTML output of the CLI.
type RenderConfig struct {
	// Pretty indents rendered HTML.
	Pretty bool `mapstructure:"pretty"`
}

// S3Config configures reading s3://bucket/key documents.
type S3Config struct {
	Region string `mapstructure:"region"`

	// Endpoint overrides the service endpoint, e.g. for MinIO.
	Endpoint string `mapstructure:"endpoint"`

	// PathStyle addresses buckets as endpoint/bucket/key.
	PathStyle bool `mapstructure:"path_style"`
}

// New returns a configuration holding the defaults.
func New() *Config {
	cfg, _ := decode(newViper())
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.path", DefaultLivePath)
	v.SetDefault("metrics.namespace", DefaultNamespace)
	v.SetDefault("log.level", "info")
	v.SetDefault("render.pretty", false)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path_style", false)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads graft.yaml from dir if it exists, then applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.AddConfigPath(dir)
	v.SetConfigName(ConfigName)

	path := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.New("E250").
				WithDetail("Failed to parse " + filepath.Join(dir, ConfigFileName) + ": " + err.Error()).
				Wrap(err)
		}
	} else {
		path = v.ConfigFileUsed()
	}
	return finish(v, path)
}

// LoadFile reads configuration from the given file. The file must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("E250").
			WithDetail("Cannot read " + path).
			WithSuggestion("Check the --config flag or create " + ConfigFileName).
			Wrap(err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.New("E250").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			Wrap(err)
	}
	return finish(v, path)
}

func finish(v *viper.Viper, path string) (*Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("E250").Wrap(err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("E250").WithDetail("server.addr must not be empty")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return errors.New("E250").
			WithDetail("server.path must start with /, got " + c.Server.Path)
	}
	if c.S3.Endpoint != "" && !strings.HasPrefix(c.S3.Endpoint, "http://") && !strings.HasPrefix(c.S3.Endpoint, "https://") {
		return errors.New("E250").
			WithDetail("s3.endpoint must be an http or https URL, got " + c.S3.Endpoint)
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E250").
			WithDetail("log.level: " + err.Error()).
			WithSuggestion("Use one of debug, info, warn or error")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string {
	return c.configPath
}
