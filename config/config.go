package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
)

// Environment keys consulted at startup. No other variables are read.
const (
	EnvAPIURL = "API_URL"
	EnvAPIKey = "API_KEY"
)

// DefaultEnvFile is the settings file loaded when present
const DefaultEnvFile = ".env"

// Config holds the upstream connection settings. It is built once in main
// and passed by value; nothing in it changes after startup.
type Config struct {
	// APIURL is the base URL of the upstream REST service
	APIURL string `json:"api_url"`

	// APIKey is forwarded verbatim on every upstream call as the apiKey header
	APIKey string `json:"-"`
}

// LookupFunc resolves an environment key, reporting whether it is set
type LookupFunc func(key string) (string, bool)

// Load reads API_URL and API_KEY from the process environment, falling back to
// the settings file at path. Values already present in the environment win
// over the file. A missing file is not an error; a malformed one is reported
// but the environment values are still returned.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup LookupFunc) (Config, error) {
	fileValues, err := readEnvFile(path)

	resolve := func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return fileValues[key]
	}

	cfg := Config{
		APIURL: resolve(EnvAPIURL),
		APIKey: resolve(EnvAPIKey),
	}
	return cfg, err
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return map[string]string{}, errors.WrapInvalid(err, "Config", "Load", "read settings file "+path)
	}
	return values, nil
}

// Validate reports missing settings. Callers treat the result as a warning:
// the gateway still starts and the affected upstream calls fail at request
// time, falling back to their default values.
func (c Config) Validate() error {
	var missing []string
	if c.APIURL == "" {
		missing = append(missing, EnvAPIURL)
	}
	if c.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
		"check "+strings.Join(missing, ", "))
}

// MaskedAPIKey returns the key with all but its last four characters hidden,
// for log output.
func (c Config) MaskedAPIKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
