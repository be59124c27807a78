package config

import (
	"fmt"
	"strings"

	"github.com/dendrascience/zipsync/zipsync"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. ZIPSYNC_COMPRESS_LEVEL.
const EnvPrefix = "ZIPSYNC"

type Config struct {
	Compress   CompressConfig   `mapstructure:"compress"`
	Uncompress UncompressConfig `mapstructure:"uncompress"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type CompressConfig struct {
	ExistingArchive      zipsync.ExistingArchiveAction `mapstructure:"existing_archive"`
	Overwrite            zipsync.OverwritePolicy       `mapstructure:"overwrite"`
	Level                zipsync.CompressionLevel      `mapstructure:"level"`
	IncludeBaseDirectory bool                          `mapstructure:"include_base_directory"`
	Exclude              []string                      `mapstructure:"exclude"`
}

type UncompressConfig struct {
	Overwrite zipsync.OverwritePolicy `mapstructure:"overwrite"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Textfile is where run metrics are written in the Prometheus text
	// format, for node_exporter's textfile collector. Empty disables it.
	Textfile string `mapstructure:"textfile"`
}

// Options converts the compress section into library options.
func (c CompressConfig) Options() zipsync.CompressOptions {
	return zipsync.CompressOptions{
		ExistingArchive:      c.ExistingArchive,
		Overwrite:            c.Overwrite,
		Level:                c.Level,
		IncludeBaseDirectory: c.IncludeBaseDirectory,
		Exclude:              c.Exclude,
	}
}

// Options converts the uncompress section into library options.
func (c UncompressConfig) Options() zipsync.ExtractOptions {
	return zipsync.ExtractOptions{Overwrite: c.Overwrite}
}

// Load reads configuration from file. An empty path skips the file and
// returns the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Compress: CompressConfig{
			ExistingArchive: zipsync.ArchiveReplace,
			Overwrite:       zipsync.OverwriteIfNewer,
			Level:           zipsync.LevelOptimal,
		},
		Uncompress: UncompressConfig{
			Overwrite: zipsync.OverwriteIfNewer,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("compress.existing_archive", d.Compress.ExistingArchive.String())
	v.SetDefault("compress.overwrite", d.Compress.Overwrite.String())
	v.SetDefault("compress.level", d.Compress.Level.String())
	v.SetDefault("compress.include_base_directory", d.Compress.IncludeBaseDirectory)
	// no default value, but the key must be known for environment overrides
	_ = v.BindEnv("compress.exclude")
	v.SetDefault("uncompress.overwrite", d.Uncompress.Overwrite.String())
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := c.Compress.ExistingArchive.MarshalText(); err != nil {
		return fmt.Errorf("compress.existing_archive: %w", err)
	}
	if _, err := c.Compress.Overwrite.MarshalText(); err != nil {
		return fmt.Errorf("compress.overwrite: %w", err)
	}
	if _, err := c.Compress.Level.MarshalText(); err != nil {
		return fmt.Errorf("compress.level: %w", err)
	}
	if _, err := c.Uncompress.Overwrite.MarshalText(); err != nil {
		return fmt.Errorf("uncompress.overwrite: %w", err)
	}
	if c.Log.Level != "" {
		if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}
