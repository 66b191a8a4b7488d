package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "TABINSIGHT"
	appDir    = ".tabinsight"
)

// Global configuration structure.
type Global struct {
	ProjectsDir   string `mapstructure:"projects_dir" yaml:"projects_dir"`
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`

	// Analysis defaults
	CategoryTopN    int `mapstructure:"category_top_n" yaml:"category_top_n"`
	CompositionTopN int `mapstructure:"composition_top_n" yaml:"composition_top_n"`
	TrendWindow     int `mapstructure:"trend_window" yaml:"trend_window"`
	LabelMaxLen     int `mapstructure:"label_max_len" yaml:"label_max_len"`
	MaxRows         int `mapstructure:"max_rows" yaml:"max_rows"`
	HistogramBins   int `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// HTTP server
	ServerAddr   string `mapstructure:"server_addr" yaml:"server_addr"`
	CacheEntries int    `mapstructure:"cache_entries" yaml:"cache_entries"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"projects_dir", "default_format",
	"category_top_n", "composition_top_n", "trend_window", "label_max_len", "max_rows", "histogram_bins",
	"server_addr", "cache_entries",
	"log_level", "log_format",
}

func setDefaults(v *viper.Viper) {
	_ = v.BindEnv("projects_dir")
	v.SetDefault("default_format", "markdown")
	v.SetDefault("category_top_n", 10)
	v.SetDefault("composition_top_n", 6)
	v.SetDefault("trend_window", 15)
	v.SetDefault("label_max_len", 30)
	v.SetDefault("max_rows", 100000)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("server_addr", "127.0.0.1:8080")
	v.SetDefault("cache_entries", 64)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Dir returns ~/.tabinsight.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDir), nil
}

// Path returns cfgFile, or ~/.tabinsight/config.yaml when it is empty.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabinsight/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults. A .env file in
// the working directory seeds the environment without overriding it.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	path, err := Path(cfgFile)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// missing files fall back to defaults; malformed ones are errors
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ProjectsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	return &c, nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "projects_dir":
		return c.ProjectsDir, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "server_addr":
		return c.ServerAddr, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	if p := c.intField(key); p != nil {
		return strconv.Itoa(*p), nil
	}
	return "", fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
}

// Set assigns key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "projects_dir":
		c.ProjectsDir = value
		return nil
	case "default_format":
		c.DefaultFormat = value
		return nil
	case "server_addr":
		c.ServerAddr = value
		return nil
	case "log_level":
		c.LogLevel = value
		return nil
	case "log_format":
		c.LogFormat = value
		return nil
	}
	p := c.intField(key)
	if p == nil {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
	}
	*p = n
	return nil
}

func (c *Global) intField(key string) *int {
	switch key {
	case "category_top_n":
		return &c.CategoryTopN
	case "composition_top_n":
		return &c.CompositionTopN
	case "trend_window":
		return &c.TrendWindow
	case "label_max_len":
		return &c.LabelMaxLen
	case "max_rows":
		return &c.MaxRows
	case "histogram_bins":
		return &c.HistogramBins
	case "cache_entries":
		return &c.CacheEntries
	}
	return nil
}
