package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultConfigDir  = "configs"
	DefaultConfigFile = "confluence2rst.json"
	DefaultDotEnv     = ".env"
)

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigFile)
}

// SearchPaths lists the places a config is picked up from when --config is
// not given, in priority order.
func SearchPaths() []string {
	base := strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile))
	paths := []string{}
	for _, dir := range []string{".", DefaultConfigDir} {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			paths = append(paths, filepath.Join(dir, base+ext))
		}
	}
	return paths
}

// Discover returns the first existing path from SearchPaths, or "".
func Discover() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
