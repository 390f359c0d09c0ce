package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/casediag/pkg/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.yaml", `
auth_url: https://auth.example.com
case_url: https://cases.example.com
timeout: 5s
max_retries: 1
llm_provider: openai
`)

	cfg, err := Load(path, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com", cfg.AuthURL)
	assert.Equal(t, "https://cases.example.com", cfg.CaseURL)
	assert.Equal(t, DefaultConfig().DiagnosticURL, cfg.DiagnosticURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, "openai", cfg.LLMProvider)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.yaml", "case_url: https://file.example.com\n")

	t.Setenv(EnvPrefix+"CASE_URL", "https://env.example.com")
	t.Setenv(EnvPrefix+"TIMEOUT", "12s")
	t.Setenv(EnvPrefix+"MAX_RETRIES", "not-a-number")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.CaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().AuthURL, cfg.AuthURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	writeFile(t, dir, ".env", "CASEDIAG_DIAGNOSTIC_URL=https://diag.example.com\n")
	t.Cleanup(func() { os.Unsetenv(EnvPrefix + "DIAGNOSTIC_URL") })

	cfg, err := Load("", logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "https://diag.example.com", cfg.DiagnosticURL)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "auth_url: [unterminated\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "failed to parse config file")

	path = writeFile(t, t.TempDir(), "neg.yaml", "max_retries: -1\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "max_retries")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
