package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
)

const (
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
)

type Config struct {
	Schema             int    `json:"schema" toml:"schema"`
	TemplatesDir       string `json:"templates_dir,omitempty" toml:"templates_dir"`
	Backend            string `json:"backend,omitempty" toml:"backend"`
	Format             string `json:"format,omitempty" toml:"format"`
	Database           string `json:"database,omitempty" toml:"database"`
	RulesFile          string `json:"rules_file,omitempty" toml:"rules_file"`
	DefaultDestination string `json:"default_destination,omitempty" toml:"default_destination"`

	// path is the file the config was read from, empty for defaults.
	path string
}

const CurrentConfigSchema = 1

func DefaultConfig() *Config {
	base := baseDir()
	return &Config{
		Schema:             CurrentConfigSchema,
		TemplatesDir:       filepath.Join(base, "templates"),
		Backend:            BackendDir,
		Format:             "json",
		Database:           filepath.Join(base, "templates.db"),
		RulesFile:          filepath.Join(base, "rules.json"),
		DefaultDestination: "~",
	}
}

// Load reads the first config file found: the explicit path, then
// $XDG_CONFIG_HOME/ft/config.json, then config.toml next to it. Missing
// fields take their defaults; no file at all yields DefaultConfig.
func Load(configPath string) (*Config, error) {
	for _, path := range getConfigPaths(configPath) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && path != configPath {
				continue
			}
			return nil, err
		}

		cfg, err := parse(path, data)
		if err != nil {
			return nil, err
		}
		cfg.path = path
		cfg.applyDefaults()
		cfg.expandPaths()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}

	return DefaultConfig(), nil
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func baseDir() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "ft")
}

func getConfigPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	base := baseDir()
	return []string{
		filepath.Join(base, "config.json"),
		filepath.Join(base, "config.toml"),
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Schema == 0 {
		c.Schema = def.Schema
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = def.TemplatesDir
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.RulesFile == "" {
		c.RulesFile = def.RulesFile
	}
	if c.DefaultDestination == "" {
		c.DefaultDestination = def.DefaultDestination
	}
}

func (c *Config) expandPaths() {
	c.TemplatesDir = expandHome(c.TemplatesDir)
	c.Database = expandHome(c.Database)
	c.RulesFile = expandHome(c.RulesFile)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if c.Schema > CurrentConfigSchema {
		return fmt.Errorf("config schema %d is newer than supported version %d", c.Schema, CurrentConfigSchema)
	}
	switch c.Backend {
	case BackendDir, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (must be %s or %s)", c.Backend, BackendDir, BackendSQLite)
	}
	switch c.Format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown format %q (must be json or yaml)", c.Format)
	}
	return nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}
