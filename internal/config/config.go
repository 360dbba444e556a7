// Package config loads aquacheck settings from a YAML file, a .env file
// and AQUACHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/aquacheck/internal/llm"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/speech"
)

// Config is the full application configuration.
type Config struct {
	// DataPath is the training CSV.
	DataPath string `yaml:"data"`

	// DBPath is the history database. Empty uses store.DefaultDBPath.
	DBPath string `yaml:"db"`

	Model  potability.TrainConfig `yaml:"model"`
	Speech SpeechConfig           `yaml:"speech"`
	Server ServerConfig           `yaml:"server"`
	Log    LogConfig              `yaml:"log"`
	LLM    llm.Config             `yaml:"llm"`
}

// SpeechConfig controls spoken output.
type SpeechConfig struct {
	Mute bool `yaml:"mute"`
	// Engine pins one of speech.Engines(). Empty probes them in order.
	Engine string `yaml:"engine"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	Mode           string   `yaml:"mode"` // gin mode: debug, release or test
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// File receives logs. Empty discards them, except under serve.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataPath: "water_potability.csv",
		Model:    potability.DefaultTrainConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			Mode:           "release",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info"},
		LLM: llm.DefaultConfig(),
	}
}

// Load builds the configuration: defaults, then the config file, then
// .env, then the environment. path may be empty, in which case
// $AQUACHECK_CONFIG and then $XDG_CONFIG_HOME/aquacheck/config.yaml are
// tried. Only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		if p := os.Getenv("AQUACHECK_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath()
		}
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/aquacheck/config.yaml, falling
// back to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "aquacheck", "config.yaml")
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with AQUACHECK_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("AQUACHECK_DATA"); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv("AQUACHECK_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("AQUACHECK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("AQUACHECK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AQUACHECK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("AQUACHECK_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("AQUACHECK_SPEECH_ENGINE"); v != "" {
		c.Speech.Engine = v
	}
	if v := os.Getenv("AQUACHECK_MUTE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AQUACHECK_MUTE: %w", err)
		}
		c.Speech.Mute = b
	}
	if v := os.Getenv("AQUACHECK_TREES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AQUACHECK_TREES: %w", err)
		}
		c.Model.Forest.Trees = n
	}
	if v := os.Getenv("AQUACHECK_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AQUACHECK_SEED: %w", err)
		}
		c.Model.Forest.Seed = n
	}

	c.LLM.ApplyEnv()
	return nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("data path is required")
	}
	if c.Model.Forest.Trees < 1 {
		return fmt.Errorf("model.forest.trees must be at least 1, got %d", c.Model.Forest.Trees)
	}
	if f := c.Model.TestFraction; f <= 0 || f >= 1 {
		return fmt.Errorf("model.test_fraction must be between 0 and 1, got %g", f)
	}
	if c.Speech.Engine != "" && !knownEngine(c.Speech.Engine) {
		return fmt.Errorf("unknown speech engine %q (want one of %s)",
			c.Speech.Engine, strings.Join(speech.Engines(), ", "))
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	return nil
}

func knownEngine(name string) bool {
	for _, e := range speech.Engines() {
		if e == name {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
