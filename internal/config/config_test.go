package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.URL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, OutputText, cfg.Output)
	require.NotNil(t, cfg.DevServer)
	assert.Equal(t, "127.0.0.1:8080", cfg.DevServer.Listen)
	assert.Equal(t, "./data/lapinstance.db", cfg.DevServer.Database.Path)
	assert.True(t, cfg.DevServer.RosterEnabled)
	assert.Equal(t, []lapinstance.UserRole{lapinstance.UserRoleAdmin, lapinstance.UserRoleUser}, cfg.DevServer.SessionRoles())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
url: " https://raids.example.com/api/ "
timeout: 5s
output: JSON
headers:
  x-guild: lapin
devserver:
  listen: ":9000"
  roster_enabled: false
  session:
    user_name: Bob
    roles: [user]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://raids.example.com/api", cfg.URL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, map[string]string{"x-guild": "lapin"}, cfg.Headers)
	assert.Equal(t, ":9000", cfg.DevServer.Listen)
	assert.False(t, cfg.DevServer.RosterEnabled)
	assert.Equal(t, "Bob", cfg.DevServer.Session.UserName)
	assert.Equal(t, []lapinstance.UserRole{lapinstance.UserRoleUser}, cfg.DevServer.SessionRoles())
	assert.Equal(t, "./data/lapinstance.db", cfg.DevServer.Database.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "url: http://from-file:8080\n")
	t.Setenv("LAPINSTANCE_API_URL", "http://from-env:8080/")
	t.Setenv("LAPINSTANCE_OUTPUT", "json")
	t.Setenv("LAPINSTANCE_DB", "/tmp/raids.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", cfg.URL)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, "/tmp/raids.db", cfg.DevServer.Database.Path)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "relative url", content: "url: localhost:8080\n"},
		{name: "unknown output", content: "output: yaml\n"},
		{name: "negative timeout", content: "timeout: -1s\n"},
		{name: "unknown role", content: "devserver:\n  session:\n    roles: [officer]\n"},
		{name: "empty session user", content: "devserver:\n  session:\n    user_name: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
