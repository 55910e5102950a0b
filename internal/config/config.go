package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/msutils/internal/edition"
	"github.com/harrison/msutils/internal/filelock"
	"github.com/harrison/msutils/internal/fileutil"
	"gopkg.in/yaml.v3"
)

// DefaultStoreRoot is the store searched when no stores are configured.
const DefaultStoreRoot = "~/Server/Pages"

// StoreConfig is one edition store: a root directory and its layout.
type StoreConfig struct {
	// Root is the store's root directory. "~" is expanded at load time.
	Root string `yaml:"root"`

	// Layout is "current" or "archival"
	Layout string `yaml:"layout"`
}

// TargetConfig describes a remote destination pages can be sent to.
type TargetConfig struct {
	// Protocol is "ftp" or "sftp"
	Protocol string `yaml:"protocol"`

	Host string `yaml:"host"`

	// Port defaults to the protocol's standard port when 0
	Port int `yaml:"port,omitempty"`

	User string `yaml:"user"`

	// Password for FTP, or for SFTP password auth. With SFTP an empty
	// password falls back to private keys in ~/.ssh.
	Password string `yaml:"password,omitempty"`

	// Path is the remote directory uploads go to (empty = login directory)
	Path string `yaml:"path,omitempty"`

	// Rename uploads pages under their external name. Defaults to true.
	Rename bool `yaml:"rename"`
}

// Config represents msutils configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory for per-run log files (empty = console only)
	LogDir string `yaml:"log_dir"`

	// HistoryDB is the upload history database (empty = <home>/history.db)
	HistoryDB string `yaml:"history_db"`

	// Stores are searched in order; the first with the edition wins
	Stores []StoreConfig `yaml:"stores"`

	// Targets are named upload destinations
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`
}

// DefaultConfig returns a Config with sensible default values. Paths are
// left unexpanded so the result can be written out as a template.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogDir:    "",
		HistoryDB: "",
		Stores: []StoreConfig{
			{Root: DefaultStoreRoot, Layout: string(edition.LayoutCurrent)},
		},
		Targets: map[string]TargetConfig{},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
// Store roots, log_dir and history_db have "~" expanded.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, cfg.expandPaths()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.HistoryDB != "" {
		cfg.HistoryDB = yamlCfg.HistoryDB
	}
	if len(yamlCfg.Stores) > 0 {
		cfg.Stores = yamlCfg.Stores
	}
	for i := range cfg.Stores {
		if cfg.Stores[i].Layout == "" {
			cfg.Stores[i].Layout = string(edition.LayoutCurrent)
		}
	}

	// rename defaults to true, so we need to know whether each target
	// spelled it out.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	targetsSection, _ := rawMap["targets"].(map[string]interface{})
	for name, target := range yamlCfg.Targets {
		targetMap, _ := targetsSection[name].(map[string]interface{})
		if _, exists := targetMap["rename"]; !exists {
			target.Rename = true
		}
		target.Protocol = strings.ToLower(target.Protocol)
		cfg.Targets[name] = target
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	for i := range c.Stores {
		root, err := fileutil.ExpandHome(c.Stores[i].Root)
		if err != nil {
			return fmt.Errorf("expand store root %q: %w", c.Stores[i].Root, err)
		}
		c.Stores[i].Root = root
	}

	var err error
	if c.LogDir, err = fileutil.ExpandHome(c.LogDir); err != nil {
		return fmt.Errorf("expand log_dir %q: %w", c.LogDir, err)
	}
	if c.HistoryDB, err = fileutil.ExpandHome(c.HistoryDB); err != nil {
		return fmt.Errorf("expand history_db %q: %w", c.HistoryDB, err)
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, historyDB *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if historyDB != nil {
		c.HistoryDB = *historyDB
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(c.Stores) == 0 {
		return fmt.Errorf("stores cannot be empty")
	}
	for i, s := range c.Stores {
		if strings.TrimSpace(s.Root) == "" {
			return fmt.Errorf("stores[%d].root cannot be empty", i)
		}
		if _, err := edition.ParseLayout(s.Layout); err != nil {
			return fmt.Errorf("stores[%d]: %w", i, err)
		}
	}

	for _, name := range c.TargetNames() {
		t := c.Targets[name]
		switch t.Protocol {
		case "ftp", "sftp":
		default:
			return fmt.Errorf("targets.%s.protocol %q must be ftp or sftp", name, t.Protocol)
		}
		if t.Host == "" {
			return fmt.Errorf("targets.%s.host cannot be empty", name)
		}
		if t.User == "" {
			return fmt.Errorf("targets.%s.user cannot be empty", name)
		}
		if t.Port < 0 || t.Port > 65535 {
			return fmt.Errorf("targets.%s.port must be between 0 and 65535, got %d", name, t.Port)
		}
	}

	return nil
}

// Registry builds the edition store registry, in configuration order.
func (c *Config) Registry() (*edition.Registry, error) {
	stores := make([]edition.Store, 0, len(c.Stores))
	for i, s := range c.Stores {
		layout, err := edition.ParseLayout(s.Layout)
		if err != nil {
			return nil, fmt.Errorf("stores[%d]: %w", i, err)
		}
		root, err := fileutil.ExpandHome(s.Root)
		if err != nil {
			return nil, fmt.Errorf("stores[%d]: %w", i, err)
		}
		stores = append(stores, edition.Store{Root: root, Layout: layout})
	}
	return edition.NewRegistry(stores...), nil
}

// Target returns the named target.
func (c *Config) Target(name string) (TargetConfig, error) {
	t, ok := c.Targets[name]
	if !ok {
		if len(c.Targets) == 0 {
			return TargetConfig{}, fmt.Errorf("unknown target %q: no targets configured", name)
		}
		return TargetConfig{}, fmt.Errorf("unknown target %q (configured: %s)", name, strings.Join(c.TargetNames(), ", "))
	}
	return t, nil
}

// TargetNames returns the configured target names, sorted.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the configuration to path under a lock. The file may hold
// passwords, so it is created with mode 0600.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return filelock.LockAndWrite(path, data, 0600)
}

// WriteDefault writes DefaultConfig to path. It refuses to overwrite an
// existing file; the error then wraps os.ErrExist.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return filelock.CreateExclusive(path, data, 0600)
}
