// Package env reads the build context the orchestrator takes from its
// environment.
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consulted by the orchestrator.
const (
	Static   = "LBFGS_STATIC" // presence selects static linkage
	OutDir   = "OUT_DIR"
	Target   = "TARGET"
	Compiler = "FC"
	Source   = "LBFGS_SOURCE"
)

// ErrMissing is returned when a required value is not set anywhere.
var ErrMissing = errors.New("required value not set")

// Feature reports whether the presence-checked option name is set, whatever
// its value.
func Feature(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// Lookup returns the value of key if it is set and non-empty.
func Lookup(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// Require returns value, or an error wrapping ErrMissing that names what is
// missing and how to set it.
func Require(value, what, flag, key string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %s (set --%s or %s)", ErrMissing, what, flag, key)
	}
	return value, nil
}

// ConfigDir returns the per-user directory holding config.yaml.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "lbfgs-build"), nil
}
