package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	root := NewRootCommand()
	out := new(strings.Builder)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote "+path) {
		t.Errorf("unexpected output: %s", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "~/Server/Pages") {
		t.Errorf("default config should list the default store, got: %s", data)
	}

	root = NewRootCommand()
	root.SetOut(new(strings.Builder))
	root.SetErr(new(strings.Builder))
	root.SetArgs([]string{"--config", path, "config", "init"})
	err = root.Execute()
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
}

func TestConfigInitForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: trace\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCommand()
	out := new(strings.Builder)
	root.SetOut(out)
	root.SetErr(new(strings.Builder))
	root.SetArgs([]string{"--config", path, "config", "init", "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote "+path) {
		t.Errorf("unexpected output: %s", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "trace") || !strings.Contains(string(data), "~/Server/Pages") {
		t.Errorf("expected the default config to replace the old one, got: %s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestConfigInitDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("MSUTILS_HOME", home)

	root := NewRootCommand()
	root.SetOut(new(strings.Builder))
	root.SetErr(new(strings.Builder))
	root.SetArgs([]string{"config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Errorf("expected config in MSUTILS_HOME: %v", err)
	}
}

func TestConfigShowMasksPasswords(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.execute("config", "show", "--log-level", "debug")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if strings.Contains(out, "secret") {
		t.Errorf("password leaked: %s", out)
	}
	for _, want := range []string{"log_level: debug", "********", env.archive, "printer:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}
