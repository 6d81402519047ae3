package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL    = "CONFLUENCE_BASE_URL"
	EnvToken      = "CONFLUENCE_TOKEN"
	EnvRewriteKey = "ANTHROPIC_API_KEY"
)

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// FromEnv returns the settings that may come from the environment.
func FromEnv() Config {
	return Config{
		BaseURL:    os.Getenv(EnvBaseURL),
		Token:      os.Getenv(EnvToken),
		RewriteKey: os.Getenv(EnvRewriteKey),
	}
}
