// Package config loads the command line settings from defaults, an optional yaml file and
// ADSALES_ prefixed environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix  = "ADSALES"
	configDir  = ".adsales"
	configName = "config"
)

var ErrNoPath = errors.New("no path to write the config to")

// Config holds every setting of an analysis run
type Config struct {
	DataPath    string `mapstructure:"data_path" yaml:"data_path"`
	ChartsPath  string `mapstructure:"charts_path" yaml:"charts_path"`
	PNGDir      string `mapstructure:"png_dir" yaml:"png_dir"`
	JSONPath    string `mapstructure:"json_path" yaml:"json_path"`
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`

	TestSize        float64 `mapstructure:"test_size" yaml:"test_size"`
	Seed            uint64  `mapstructure:"seed" yaml:"seed"`
	ConfidenceLevel float64 `mapstructure:"confidence_level" yaml:"confidence_level"`
	HeadRows        int     `mapstructure:"head_rows" yaml:"head_rows"`

	// Example budget demonstrated at the end of the report
	ExampleTV        float64 `mapstructure:"example_tv" yaml:"example_tv"`
	ExampleRadio     float64 `mapstructure:"example_radio" yaml:"example_radio"`
	ExampleNewspaper float64 `mapstructure:"example_newspaper" yaml:"example_newspaper"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "advertisement.csv")
	v.SetDefault("charts_path", "adsales_charts.html")
	v.SetDefault("png_dir", "")
	v.SetDefault("json_path", "")
	v.SetDefault("history_path", "")
	v.SetDefault("test_size", 0.2)
	v.SetDefault("seed", 42)
	v.SetDefault("confidence_level", 0.95)
	v.SetDefault("head_rows", 5)
	v.SetDefault("example_tv", 200.0)
	v.SetDefault("example_radio", 40.0)
	v.SetDefault("example_newspaper", 60.0)
}

// Default returns the configuration used when neither a file nor the environment sets anything
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return &c
}

// DefaultPath is ~/.adsales/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve home dir, %w", err)
	}
	return filepath.Join(home, configDir, configName+".yaml"), nil
}

// Load reads the configuration with precedence env > config file > defaults. An empty cfgFile
// looks for config.yaml under ~/.adsales and skips it when absent. An explicit cfgFile must
// exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s, %w", cfgFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDir))
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	return &c, nil
}

// Save writes the configuration as yaml to path, creating the parent directory if needed
func Save(c *Config, path string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create config dir, %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to marshal config, %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("unable to write config, %w", err)
	}
	return nil
}
