package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6667", cfg.ListenAddress())
	assert.Equal(t, "localhost:8080", cfg.APIListenAddress())
	assert.NotEmpty(t, cfg.Server.Created)
	assert.False(t, cfg.Features.DisableUsers)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "ircd.yaml", `
server:
  host: 127.0.0.1
  port: 7000
  created: Mon, 01 Jan 2024 00:00:00 UTC
motd:
  lines:
    - welcome
    - enjoy your stay
features:
  disable_users: true
operators:
  - username_hash: abc
    password_hash: def
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddress())
	assert.Equal(t, "Mon, 01 Jan 2024 00:00:00 UTC", cfg.Server.Created)
	assert.Equal(t, []string{"welcome", "enjoy your stay"}, cfg.MOTD.Lines)
	assert.True(t, cfg.Features.DisableUsers)
	require.Len(t, cfg.Operators, 1)
	assert.Equal(t, "abc", cfg.Operators[0].UsernameHash)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "ircd.toml", `
[server]
host = "0.0.0.0"
port = 6668

[api]
enabled = true
bearer_tokens = ["secret"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:6668", cfg.ListenAddress())
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, []string{"secret"}, cfg.API.BearerTokens)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "ircd.json", `{"server": {"host": "::1", "port": 6697}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "::1", cfg.Server.Host)
	assert.Equal(t, 6697, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IRCD_HOST", "10.0.0.1")
	t.Setenv("IRCD_PORT", "6670")
	t.Setenv("IRCD_DISABLE_USERS", "yes")
	t.Setenv("IRCD_API_TOKENS", "a, b")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:6670", cfg.ListenAddress())
	assert.True(t, cfg.Features.DisableUsers)
	assert.Equal(t, []string{"a", "b"}, cfg.API.BearerTokens)
}

func TestMOTDFile(t *testing.T) {
	motd := writeFile(t, "motd.txt", "line one\nline two\n\n")
	path := writeFile(t, "ircd.yaml", `
motd:
  lines: [inline]
  file: `+motd+`
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"inline", "line one", "line two"}, cfg.MOTD.Lines)
}

func TestOperatorsFile(t *testing.T) {
	opers := writeFile(t, "opers.txt", "hash1:hash2\n\nhash3:hash4\n")
	path := writeFile(t, "ircd.yaml", "operators_file: "+opers+"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Operators, 2)
	assert.Equal(t, Operator{UsernameHash: "hash1", PasswordHash: "hash2"}, cfg.Operators[0])
	assert.Equal(t, Operator{UsernameHash: "hash3", PasswordHash: "hash4"}, cfg.Operators[1])
}

func TestOperatorsFileMalformed(t *testing.T) {
	opers := writeFile(t, "opers.txt", "no-separator\n")
	path := writeFile(t, "ircd.yaml", "operators_file: "+opers+"\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/ircd.yaml")
	assert.Error(t, err)
}
