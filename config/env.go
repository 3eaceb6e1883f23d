package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/penwyp/ClawMeter/logging"
)

// EnvPrefix is the prefix of environment variables read by EnvSource
const EnvPrefix = "CLAWMETER"

// ConfigFileEnv names a config file that takes the place of ConfigPaths
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// LoadDotEnv loads KEY=VALUE pairs from files into the process environment.
// Variables that are already set are never overridden, so a shell export of
// NODE_PATH still wins over a .env entry. Missing files are skipped.
func LoadDotEnv(files []string) ([]string, error) {
	loaded := make([]string, 0, len(files))
	for _, f := range files {
		path := ExpandPath(f)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", path, err)
		}
		logging.LogDebugf("Loaded environment from %s", path)
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// ExpandPath expands environment variables and a leading ~ in path
func ExpandPath(path string) string {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ExpandPaths applies ExpandPath to every entry, dropping empty results
func ExpandPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if e := ExpandPath(p); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// GetEnvWithDefault gets an environment variable with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
