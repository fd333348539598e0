// Package config reads and writes the bridge's repository-local settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file name inside the state directory.
const FileName = "config.toml"

// Config stores settings for one bridge state directory.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Metadata MetadataConfig `toml:"metadata"`
}

// StoreConfig configures the backing object store.
type StoreConfig struct {
	// Compress enables zstd compression of stored objects.
	Compress bool `toml:"compress"`
	// Level is the zstd level: 1 fastest, 2 default, 3 better compression.
	Level int `toml:"level"`
}

// MetadataConfig configures the mapping namespaces.
type MetadataConfig struct {
	// FilesMeta activates the file-metadata namespace.
	FilesMeta bool `toml:"files_meta"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store:    StoreConfig{Compress: true, Level: 2},
		Metadata: MetadataConfig{FilesMeta: true},
	}
}

// Load reads the config from dir. A missing file yields Default.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// Save atomically writes the config to dir.
func Save(dir string, cfg *Config) error {
	if cfg == nil {
		cfg = Default()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, FileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
