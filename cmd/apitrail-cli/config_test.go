package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, token, fmt string }{flagURL, flagToken, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagToken = orig.token
		flagFmt = orig.fmt
	})
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// TestResolveConfigEnvURL verifies that APITRAIL_URL overrides the default URL.
func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "APITRAIL_TOKEN")
	t.Setenv("APITRAIL_URL", "http://env-server:9090")
	t.Setenv("HOME", t.TempDir())

	flagURL = defaultURL
	flagToken = ""
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want %q", flagURL, "http://env-server:9090")
	}
}

// TestResolveConfigEnvToken verifies that APITRAIL_TOKEN sets the token.
func TestResolveConfigEnvToken(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "APITRAIL_URL")
	t.Setenv("APITRAIL_TOKEN", "token-from-env")
	t.Setenv("HOME", t.TempDir())

	flagURL = defaultURL
	flagToken = ""
	resolveConfig()

	if flagToken != "token-from-env" {
		t.Errorf("flagToken: got %q, want %q", flagToken, "token-from-env")
	}
}

// TestResolveConfigFlagTakesPrecedenceOverEnv verifies that an explicit flag
// value is not overridden by the environment variable.
func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("APITRAIL_URL", "http://env-server:9090")
	t.Setenv("HOME", t.TempDir())

	// Simulate flag being explicitly set to a non-default value.
	flagURL = "http://explicit-flag:1234"
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
}

// TestResolveConfigYAML verifies that the config file is read correctly.
func TestResolveConfigYAML(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "APITRAIL_URL")
	unsetEnv(t, "APITRAIL_TOKEN")

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".apitrail")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgContent := "url: http://from-file:8080\ntoken: file-token\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgContent), 0o600); err != nil {
		t.Fatal(err)
	}

	flagURL = defaultURL
	flagToken = ""
	resolveConfig()

	if flagURL != "http://from-file:8080" {
		t.Errorf("flagURL from config: got %q, want %q", flagURL, "http://from-file:8080")
	}
	if flagToken != "file-token" {
		t.Errorf("flagToken from config: got %q, want %q", flagToken, "file-token")
	}
}

// TestResolveConfigMissingFile verifies that a missing config file is silently
// ignored and flag defaults are unchanged.
func TestResolveConfigMissingFile(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "APITRAIL_URL")
	unsetEnv(t, "APITRAIL_TOKEN")
	t.Setenv("HOME", t.TempDir())

	flagURL = defaultURL
	flagToken = ""
	resolveConfig() // must not panic

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default; got %q", flagURL)
	}
	if flagToken != "" {
		t.Errorf("flagToken should stay empty; got %q", flagToken)
	}
}

// TestResolveConfigInvalidYAML verifies that a malformed config file is
// silently ignored.
func TestResolveConfigInvalidYAML(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "APITRAIL_URL")
	unsetEnv(t, "APITRAIL_TOKEN")

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".apitrail")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(":::not-yaml:::"), 0o600); err != nil {
		t.Fatal(err)
	}

	flagURL = defaultURL
	flagToken = ""
	resolveConfig() // must not panic

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default on bad YAML; got %q", flagURL)
	}
}

// TestResolveConfigEnvNotOverriddenByFile verifies that env vars take
// precedence over config file values.
func TestResolveConfigEnvNotOverriddenByFile(t *testing.T) {
	resetFlags(t)
	t.Setenv("APITRAIL_TOKEN", "env-wins-token")
	unsetEnv(t, "APITRAIL_URL")

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".apitrail")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgContent := "url: http://file:9000\ntoken: file-token\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgContent), 0o600); err != nil {
		t.Fatal(err)
	}

	flagURL = defaultURL
	flagToken = ""
	resolveConfig()

	if flagToken != "env-wins-token" {
		t.Errorf("flagToken should be env value; got %q", flagToken)
	}
}

// TestParseID verifies positive integer parsing for command arguments.
func TestParseID(t *testing.T) {
	if got := parseID("42", "api id"); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}
