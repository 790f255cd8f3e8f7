// Package config assembles the orchestrator's settings from defaults, an
// optional YAML file and the environment. Command line flags are applied on
// top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goplus/lbfgs/internal/env"
)

// FileName is the config file looked up in the working directory.
const FileName = "lbfgs.yaml"

// Config holds every setting of a build.
type Config struct {
	Static   bool              `yaml:"static"`
	OutDir   string            `yaml:"out_dir"`
	Target   string            `yaml:"target"`
	Compiler string            `yaml:"fc"`
	Source   string            `yaml:"source"`
	Format   string            `yaml:"format"`
	Package  string            `yaml:"package"`
	EmitFile string            `yaml:"emit_file"`
	MakeEnv  map[string]string `yaml:"make_env"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Source: "fortran",
		Format: "ldflags",
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the config file to use: explicit if set, otherwise lbfgs.yaml
// in dir, otherwise config.yaml in the user config directory. It returns ""
// when none exists.
func Find(explicit, dir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	candidates := []string{filepath.Join(dir, FileName)}
	if userDir, err := env.ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "config.yaml"))
	}
	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// ApplyEnv overrides cfg with the values set in the environment.
func (cfg *Config) ApplyEnv() {
	if env.Feature(env.Static) {
		cfg.Static = true
	}
	if v, ok := env.Lookup(env.OutDir); ok {
		cfg.OutDir = v
	}
	if v, ok := env.Lookup(env.Target); ok {
		cfg.Target = v
	}
	if v, ok := env.Lookup(env.Compiler); ok {
		cfg.Compiler = v
	}
	if v, ok := env.Lookup(env.Source); ok {
		cfg.Source = v
	}
}

// Resolve returns the settings from the config file found for dir (if any)
// with the environment applied.
func Resolve(explicit, dir string) (Config, error) {
	path, err := Find(explicit, dir)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}
