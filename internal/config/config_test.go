package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/msutils/internal/edition"
)

// setHome points "~" at a temp directory for the duration of the test.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir = %q, want empty", cfg.LogDir)
	}
	if len(cfg.Stores) != 1 || cfg.Stores[0].Root != "~/Server/Pages" || cfg.Stores[0].Layout != "current" {
		t.Errorf("Stores = %+v, want the single current-layout ~/Server/Pages store", cfg.Stores)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestLoadConfigMissingFile verifies defaults (expanded) when there is no file
func TestLoadConfigMissingFile(t *testing.T) {
	home := setHome(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := filepath.Join(home, "Server", "Pages"); cfg.Stores[0].Root != want {
		t.Errorf("Stores[0].Root = %q, want %q", cfg.Stores[0].Root, want)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	home := setHome(t)

	path := writeConfig(t, `log_level: debug
log_dir: ~/logs
history_db: /var/lib/msutils/history.db
stores:
  - root: ~/Server/Pages
    layout: current
  - root: /Volumes/Archive/Pages
    layout: archival
  - root: /Volumes/Mirror
targets:
  printer:
    protocol: SFTP
    host: print.example.net
    port: 2222
    user: pages
    path: incoming
  web:
    protocol: ftp
    host: ftp.example.net
    user: web
    password: secret
    rename: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if want := filepath.Join(home, "logs"); cfg.LogDir != want {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, want)
	}
	if cfg.HistoryDB != "/var/lib/msutils/history.db" {
		t.Errorf("HistoryDB = %q", cfg.HistoryDB)
	}

	wantStores := []StoreConfig{
		{Root: filepath.Join(home, "Server", "Pages"), Layout: "current"},
		{Root: "/Volumes/Archive/Pages", Layout: "archival"},
		{Root: "/Volumes/Mirror", Layout: "current"},
	}
	if len(cfg.Stores) != len(wantStores) {
		t.Fatalf("Stores = %+v", cfg.Stores)
	}
	for i, want := range wantStores {
		if cfg.Stores[i] != want {
			t.Errorf("Stores[%d] = %+v, want %+v", i, cfg.Stores[i], want)
		}
	}

	printer, err := cfg.Target("printer")
	if err != nil {
		t.Fatal(err)
	}
	if printer.Protocol != "sftp" || printer.Port != 2222 || printer.Path != "incoming" {
		t.Errorf("printer = %+v", printer)
	}
	if !printer.Rename {
		t.Error("rename should default to true")
	}

	web, err := cfg.Target("web")
	if err != nil {
		t.Fatal(err)
	}
	if web.Rename {
		t.Error("explicit rename: false was not honoured")
	}
	if web.Password != "secret" {
		t.Errorf("Password = %q", web.Password)
	}
}

// TestLoadConfigPartialFile verifies unspecified values keep their defaults
func TestLoadConfigPartialFile(t *testing.T) {
	setHome(t)
	cfg, err := LoadConfig(writeConfig(t, "log_level: warn\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if len(cfg.Stores) != 1 || !strings.HasSuffix(cfg.Stores[0].Root, filepath.Join("Server", "Pages")) {
		t.Errorf("Stores = %+v, want default store", cfg.Stores)
	}
}

// TestLoadConfigMalformed verifies YAML errors are reported
func TestLoadConfigMalformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "stores: [\n  - root: x\n"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Targets["printer"] = TargetConfig{Protocol: "sftp", Host: "h", User: "u"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log_level"},
		{"no stores", func(c *Config) { c.Stores = nil }, "stores cannot be empty"},
		{"empty root", func(c *Config) { c.Stores[0].Root = " " }, "stores[0].root cannot be empty"},
		{"bad layout", func(c *Config) { c.Stores[0].Layout = "flat" }, "stores[0]"},
		{"bad protocol", func(c *Config) {
			t := c.Targets["printer"]
			t.Protocol = "scp"
			c.Targets["printer"] = t
		}, "must be ftp or sftp"},
		{"no host", func(c *Config) {
			t := c.Targets["printer"]
			t.Host = ""
			c.Targets["printer"] = t
		}, "targets.printer.host"},
		{"no user", func(c *Config) {
			t := c.Targets["printer"]
			t.User = ""
			c.Targets["printer"] = t
		}, "targets.printer.user"},
		{"negative port", func(c *Config) {
			t := c.Targets["printer"]
			t.Port = -1
			c.Targets["printer"] = t
		}, "targets.printer.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestMergeWithFlags verifies non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogDir = "/from/file"

	level := "trace"
	cfg.MergeWithFlags(&level, nil, nil)

	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want trace", cfg.LogLevel)
	}
	if cfg.LogDir != "/from/file" {
		t.Errorf("LogDir = %q, nil flag should not override", cfg.LogDir)
	}

	empty := ""
	db := "/tmp/h.db"
	cfg.MergeWithFlags(nil, &empty, &db)
	if cfg.LogDir != "" || cfg.HistoryDB != "/tmp/h.db" {
		t.Errorf("LogDir = %q, HistoryDB = %q", cfg.LogDir, cfg.HistoryDB)
	}
}

func TestRegistry(t *testing.T) {
	home := setHome(t)
	cfg := DefaultConfig()
	cfg.Stores = append(cfg.Stores, StoreConfig{Root: "/Volumes/Archive", Layout: "Archival"})

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	stores := reg.Stores()
	if len(stores) != 2 {
		t.Fatalf("Stores = %+v", stores)
	}
	if stores[0].Root != filepath.Join(home, "Server", "Pages") || stores[0].Layout != edition.LayoutCurrent {
		t.Errorf("stores[0] = %+v", stores[0])
	}
	if stores[1].Root != "/Volumes/Archive" || stores[1].Layout != edition.LayoutArchival {
		t.Errorf("stores[1] = %+v", stores[1])
	}

	cfg.Stores[1].Layout = "flat"
	if _, err := cfg.Registry(); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestTarget(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Target("printer"); err == nil || !strings.Contains(err.Error(), "no targets configured") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Targets["web"] = TargetConfig{Protocol: "ftp"}
	cfg.Targets["printer"] = TargetConfig{Protocol: "sftp"}
	if _, err := cfg.Target("archive"); err == nil || !strings.Contains(err.Error(), "printer, web") {
		t.Errorf("unexpected error: %v", err)
	}
	if got := cfg.TargetNames(); len(got) != 2 || got[0] != "printer" || got[1] != "web" {
		t.Errorf("TargetNames() = %v", got)
	}
}

// TestSaveAndReload verifies Save output round-trips through LoadConfig
func TestSaveAndReload(t *testing.T) {
	setHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Stores = []StoreConfig{{Root: "/srv/Pages", Layout: "archival"}}
	cfg.Targets["printer"] = TargetConfig{Protocol: "ftp", Host: "h", User: "u", Rename: false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.LogLevel != "debug" || loaded.Stores[0].Root != "/srv/Pages" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Targets["printer"].Rename {
		t.Error("rename: false should survive a round trip")
	}
}

func TestWriteDefault(t *testing.T) {
	setHome(t)
	path := filepath.Join(t.TempDir(), "home", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "~/Server/Pages") {
		t.Errorf("default config should keep ~ unexpanded:\n%s", data)
	}

	if err := WriteDefault(path); !errors.Is(err, os.ErrExist) {
		t.Errorf("second WriteDefault() error = %v, want os.ErrExist", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written default config should validate: %v", err)
	}
}
