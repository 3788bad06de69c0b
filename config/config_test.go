package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_FromSettingsFile(t *testing.T) {
	path := writeEnvFile(t, "API_URL=https://example.my.workfront.com/attask/api/v15.0\nAPI_KEY=abc123\n")

	cfg, err := load(path, mapLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, "https://example.my.workfront.com/attask/api/v15.0", cfg.APIURL)
	assert.Equal(t, "abc123", cfg.APIKey)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeEnvFile(t, "API_URL=http://from-file\nAPI_KEY=file-key\n")

	cfg, err := load(path, mapLookup(map[string]string{EnvAPIURL: "http://from-env"}))
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.APIURL)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestLoad_EmptyEnvironmentValueStillWins(t *testing.T) {
	path := writeEnvFile(t, "API_KEY=file-key\n")

	cfg, err := load(path, mapLookup(map[string]string{EnvAPIKey: ""}))
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.env")

	cfg, err := load(path, mapLookup(map[string]string{EnvAPIURL: "http://env", EnvAPIKey: "k"}))
	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.APIURL)
	assert.Equal(t, "k", cfg.APIKey)
}

func TestLoad_UnreadableFileReturnsEnvironmentValues(t *testing.T) {
	// A directory cannot be read as a settings file
	dir := t.TempDir()

	cfg, err := load(dir, mapLookup(map[string]string{EnvAPIURL: "http://env"}))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, "http://env", cfg.APIURL)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://process-env")
	t.Setenv(EnvAPIKey, "process-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://process-env", cfg.APIURL)
	assert.Equal(t, "process-key", cfg.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		missing []string
	}{
		{"complete", Config{APIURL: "http://x", APIKey: "k"}, false, nil},
		{"missing url", Config{APIKey: "k"}, true, []string{EnvAPIURL}},
		{"missing key", Config{APIURL: "http://x"}, true, []string{EnvAPIKey}},
		{"missing both", Config{}, true, []string{EnvAPIURL, EnvAPIKey}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrMissingConfig)
			for _, key := range tt.missing {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestConfig_MaskedAPIKey(t *testing.T) {
	assert.Equal(t, "", Config{}.MaskedAPIKey())
	assert.Equal(t, "****", Config{APIKey: "abcd"}.MaskedAPIKey())
	assert.Equal(t, "*****6789", Config{APIKey: "123456789"}.MaskedAPIKey())
}
