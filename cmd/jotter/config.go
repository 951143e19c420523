package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/internal/platform"
)

const defaultConfigName = "jotter.yaml"

// fileConfig is the shape of jotter.yaml.
type fileConfig struct {
	File        string        `yaml:"file"`
	Adapter     string        `yaml:"adapter"`
	Versioning  bool          `yaml:"versioning"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
	Strict      bool          `yaml:"strict"`
	ReadOnly    bool          `yaml:"read_only"`
	LogFormat   string        `yaml:"log_format"`
}

// settings is the outcome of merging flags, environment, config file and discovery.
type settings struct {
	File        string
	Adapter     string
	Versioning  bool
	LockFile    bool
	LockTimeout time.Duration
	Strict      bool
	ReadOnly    bool
	LogFormat   string
	Source      string // where File came from
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Relative data files are relative to the config file.
	if cfg.File != "" && !filepath.IsAbs(cfg.File) {
		cfg.File = filepath.Join(filepath.Dir(path), cfg.File)
	}
	return cfg, nil
}

// resolveSettings applies, in order: flags, environment, config file,
// discovery of an existing data file, and the default location.
func (c *cli) resolveSettings(cmd *cobra.Command) (settings, error) {
	var cfg fileConfig

	configPath := firstNonEmpty(c.configFile, os.Getenv("JOTTER_CONFIG"))
	if configPath == "" && exists(defaultConfigName) {
		configPath = defaultConfigName
	}
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return settings{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	s := settings{
		Adapter:     firstNonEmpty(c.adapter, os.Getenv("JOTTER_ADAPTER"), cfg.Adapter, jotter.AdapterFS),
		Versioning:  c.versioning || cfg.Versioning,
		ReadOnly:    c.readOnly || cfg.ReadOnly,
		Strict:      cfg.Strict,
		LockTimeout: cfg.LockTimeout,
		LockFile:    cfg.LockTimeout > 0,
		LogFormat:   firstNonEmpty(os.Getenv("JOTTER_LOG_FORMAT"), cfg.LogFormat),
	}
	if flags.Changed("lock-timeout") {
		s.LockFile = true
		s.LockTimeout = c.lockTimeout
	}

	switch {
	case c.file != "":
		s.File, s.Source = c.file, "flag"
	case os.Getenv("JOTTER_FILE") != "":
		s.File, s.Source = os.Getenv("JOTTER_FILE"), "env"
	case cfg.File != "":
		s.File, s.Source = cfg.File, "config"
	default:
		name := "notes.json"
		if s.Adapter == jotter.AdapterSQLite {
			name = "notes.db"
		}
		wd, err := os.Getwd()
		if err != nil {
			return settings{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		if found, err := jotter.FindDataFile(wd, name); err == nil {
			s.File, s.Source = found, "discovered"
		} else {
			s.File, s.Source = filepath.Join(filepath.Dir(platform.DefaultDataFile), name), "default"
		}
	}

	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
