package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

const sqlitePublic = `
jwt_ttl: 1h
storage:
  driver: sqlite
  sqlite_path: /tmp/accounts.db
`

func TestLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, sqlitePublic, "jwt_key: 'k'\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JwtTTL())
	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, ":8080", cfg.Public.HTTP.Addr)
	assert.Equal(t, DefaultVerificationBaseURL, cfg.Public.Verification.BaseURL)
	assert.Equal(t, DefaultVerificationTTL, cfg.Public.Verification.TTL)
	assert.Empty(t, cfg.Private.Email.From)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, sqlitePublic+"verification:\n  base_url: http://yaml/confirm\n", "jwt_key: 'k'\nemail:\n  from: yaml@example.com\n")
	t.Setenv("ACCOUNTS_VERIFICATION_BASE_URL", "https://accounts.example.com/auth/confirm")
	t.Setenv("ACCOUNTS_MAIL_FROM", "no-reply@example.com")
	t.Setenv("ACCOUNTS_VERIFICATION_TTL", "2h")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://accounts.example.com/auth/confirm", cfg.Public.Verification.BaseURL)
	assert.Equal(t, 2*time.Hour, cfg.Public.Verification.TTL)
	assert.Equal(t, "no-reply@example.com", cfg.Private.Email.From)
}

func TestLoad_YamlKeptWithoutEnv(t *testing.T) {
	dir := writeConfig(t, sqlitePublic+"verification:\n  base_url: http://yaml/confirm\n", "jwt_key: 'k'\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://yaml/confirm", cfg.Public.Verification.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		public  string
		private string
	}{
		{name: "missing jwt key", public: sqlitePublic, private: "email:\n  from: a@b.c\n"},
		{name: "missing jwt ttl", public: "storage:\n  driver: sqlite\n  sqlite_path: x.db\n", private: "jwt_key: k\n"},
		{name: "unknown driver", public: "jwt_ttl: 1h\nstorage:\n  driver: mysql\n", private: "jwt_key: k\n"},
		{name: "postgres without host", public: "jwt_ttl: 1h\n", private: "jwt_key: k\n"},
		{name: "sqlite without path", public: "jwt_ttl: 1h\nstorage:\n  driver: sqlite\n", private: "jwt_key: k\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.public, tt.private)
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	assert.Panics(t, func() { MustLoad(dir) })
}
