// Package config loads client settings: defaults, then the global file, then
// the project file, then EVOTODO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/evotodo/internal/model"
)

const (
	DirName    = ".evotodo"
	FileName   = "config.yaml"
	EnvPrefix  = "EVOTODO"
	DefaultAPI = "http://localhost:8000"
)

// Config is the merged client configuration.
type Config struct {
	APIURL         string        `yaml:"api_url" mapstructure:"api_url"`
	AddTarget      string        `yaml:"add_target" mapstructure:"add_target"`
	NoticeDuration time.Duration `yaml:"notice_duration" mapstructure:"notice_duration"`
	UserID         string        `yaml:"user_id" mapstructure:"user_id"`
	Theme          string        `yaml:"theme" mapstructure:"theme"`
}

func Default() *Config {
	return &Config{
		APIURL:         DefaultAPI,
		AddTarget:      string(model.KindTodo),
		NoticeDuration: 3 * time.Second,
		Theme:          "classic",
	}
}

// Target is the family new items are created in.
func (c *Config) Target() (model.Kind, error) {
	switch k := model.Kind(strings.ToLower(strings.TrimSpace(c.AddTarget))); k {
	case model.KindTodo, model.KindTask:
		return k, nil
	case "":
		return model.KindTodo, nil
	}
	return "", fmt.Errorf("add_target: want todo or task, got %q", c.AddTarget)
}

// YAML renders the config for `config show`.
func (c *Config) YAML() ([]byte, error) {
	view := struct {
		APIURL         string `yaml:"api_url"`
		AddTarget      string `yaml:"add_target"`
		NoticeDuration string `yaml:"notice_duration"`
		UserID         string `yaml:"user_id,omitempty"`
		Theme          string `yaml:"theme"`
	}{c.APIURL, c.AddTarget, c.NoticeDuration.String(), c.UserID, c.Theme}
	return yaml.Marshal(view)
}

// Load reads .env from the working directory, then merges the global and
// project files and the environment over the defaults.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(GlobalPath(), ProjectPath())
}

// LoadFrom merges the given files, in order, over the defaults. Missing
// files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("add_target", def.AddTarget)
	v.SetDefault("notice_duration", def.NoticeDuration)
	v.SetDefault("user_id", def.UserID)
	v.SetDefault("theme", def.Theme)
	v.SetConfigType("yaml")

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPI
	}
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = def.NoticeDuration
	}
	if _, err := cfg.Target(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of a .env file. A missing file is fine;
// variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// GlobalPath returns ~/.evotodo/config.yaml.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName, FileName)
}

// ProjectPath returns ./.evotodo/config.yaml.
func ProjectPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, DirName, FileName)
}
