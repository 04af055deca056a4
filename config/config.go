// Package config loads the wastegrid YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/wastegrid/emission"
	"github.com/katalvlaran/wastegrid/logging"
)

// Backend names accepted by the store.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config is the root configuration document.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	Backend  string         `yaml:"backend"`
	Log      LogConfig      `yaml:"log"`
	Graph    GraphConfig    `yaml:"graph"`
	Admins   []Admin        `yaml:"admins,omitempty"`
	Emission EmissionConfig `yaml:"emission"`
}

// LogConfig controls logging.New.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// GraphConfig controls the routing graph. Roads of weight >= ClosedAt are
// treated as closed; 0 keeps every road open.
type GraphConfig struct {
	MultiEdges bool    `yaml:"multi_edges"`
	ClosedAt   float64 `yaml:"closed_at"`
}

// Admin is one operator allowed to mutate data. PasswordHash is a bcrypt hash.
type Admin struct {
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
}

// EmissionConfig controls the emission estimator.
type EmissionConfig struct {
	BaseFactor float64 `yaml:"base_factor"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DataDir:  "data",
		Backend:  BackendFile,
		Log:      LogConfig{Level: "info"},
		Emission: EmissionConfig{BaseFactor: emission.DefaultBaseFactor},
	}
}

// Load reads path over the defaults. A missing file yields Default() and no
// error; a malformed file is an error. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendBadger:
	default:
		errs = append(errs, fmt.Errorf("backend %q: want file, sqlite or badger", c.Backend))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(c.Graph.ClosedAt) || c.Graph.ClosedAt < 0 {
		errs = append(errs, fmt.Errorf("graph.closed_at %v must not be negative", c.Graph.ClosedAt))
	}
	if c.Emission.BaseFactor <= 0 {
		errs = append(errs, fmt.Errorf("emission.base_factor %v must be positive", c.Emission.BaseFactor))
	}
	seen := make(map[string]bool, len(c.Admins))
	for i, a := range c.Admins {
		switch {
		case a.Name == "":
			errs = append(errs, fmt.Errorf("admins[%d]: name is empty", i))
		case seen[a.Name]:
			errs = append(errs, fmt.Errorf("admins[%d]: duplicate name %q", i, a.Name))
		case !strings.HasPrefix(a.PasswordHash, "$2"):
			errs = append(errs, fmt.Errorf("admins[%d]: password_hash is not a bcrypt hash", i))
		}
		seen[a.Name] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}

	return nil
}

// WriteDefault writes Default() to path, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
