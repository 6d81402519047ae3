package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	PageID          string `json:"page_id" yaml:"page_id"`
	BaseURL         string `json:"base_url" yaml:"base_url"`
	Token           string `json:"token,omitempty" yaml:"token,omitempty"`
	OutputDir       string `json:"output_dir" yaml:"output_dir"`
	TimeoutSeconds  int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	UserAgent       string `json:"user_agent" yaml:"user_agent"`
	TableLayout     string `json:"table_layout" yaml:"table_layout"`
	Markdown        bool   `json:"markdown" yaml:"markdown"`
	LogLevel        string `json:"log_level" yaml:"log_level"`
	Rewriter        string `json:"rewriter" yaml:"rewriter"`
	RewriteEndpoint string `json:"rewrite_endpoint" yaml:"rewrite_endpoint"`
	RewriteModel    string `json:"rewrite_model" yaml:"rewrite_model"`
	RewriteKey      string `json:"rewrite_key,omitempty" yaml:"rewrite_key,omitempty"`
}

// Load reads a JSON config, or YAML when the file ends in .yaml or .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg in the format implied by path.
func Marshal(path string, cfg Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// Save writes cfg to path. The file may hold credentials, so it is private.
func Save(path string, cfg Config) error {
	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
