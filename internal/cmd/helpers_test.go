package cmd

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
)

// testEnv is an isolated msutils setup: a home directory, two stores and a
// config file pointing at them.
type testEnv struct {
	home       string
	configPath string
	historyDB  string
	current    string
	archive    string
	closedPort int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	env := &testEnv{
		home:       filepath.Join(base, "msutils-home"),
		configPath: filepath.Join(base, "config.yaml"),
		historyDB:  filepath.Join(base, "history.db"),
		current:    filepath.Join(base, "Pages"),
		archive:    filepath.Join(base, "Archive"),
		closedPort: closedPort(t),
	}
	t.Setenv("MSUTILS_HOME", env.home)
	t.Setenv("HOME", base)
	t.Setenv("USERPROFILE", base)

	for _, dir := range []string{env.current, env.archive} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
	}

	content := fmt.Sprintf(`log_level: info
history_db: %s
stores:
  - root: %s
    layout: current
  - root: %s
    layout: archival
targets:
  printer:
    protocol: ftp
    host: 127.0.0.1
    port: %d
    user: pages
    password: secret
  web:
    protocol: sftp
    host: 127.0.0.1
    port: %d
    user: pages
    password: secret
    rename: false
`, env.historyDB, env.current, env.archive, env.closedPort, env.closedPort)
	if err := os.WriteFile(env.configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// closedPort returns a localhost port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

// touch creates files (and their parent directories) under root.
func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("%PDF"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

// realPath resolves symlinks in path (macOS temp dirs live under /private).
func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}
	return resolved
}

// execute runs the root command with --config pointing at env's config and
// returns what it wrote to stdout and stderr.
func (env *testEnv) execute(args ...string) (stdout, stderr string, err error) {
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", env.configPath}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// Directory names of the 2016-05-04 edition under each layout.
const (
	currentEdition  = "2016-05-04 Wednesday May 4"
	archivalEdition = "2016/05 May/2016-05-04 Wednesday"
	editionDate     = "2016-05-04"
)

// readLatestLog returns the contents of the most recent run log in logDir.
func readLatestLog(logDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	return string(data), err
}
