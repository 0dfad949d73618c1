// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the session configuration from
// ~/.subtext/subtext.yaml, creating it with defaults on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Backend selects and configures the analyzer service.
	Backend BackendConfig `yaml:"backend"`

	// History configures the local audit log.
	History HistoryConfig `yaml:"history"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`

	// Server configures the optional HTTP surface.
	Server ServerConfig `yaml:"server"`
}

type BackendConfig struct {
	// Type is "openai" or "ollama".
	Type string `yaml:"type"`

	// Model names the analyzer model, e.g. "gpt-4o-mini".
	Model string `yaml:"model"`

	// BaseURL overrides the backend endpoint. Required for ollama.
	BaseURL string `yaml:"base_url,omitempty"`
}

type HistoryConfig struct {
	// Path is the directory for the history database.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Dir enables JSON file logging when set.
	Dir string `yaml:"dir,omitempty"`
}

type ServerConfig struct {
	// Addr is the listen address for `subtext serve`.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			Type:  "openai",
			Model: "gpt-4o-mini",
		},
		History: HistoryConfig{
			Path: "~/.subtext/history",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8750",
		},
	}
}

// DefaultPath returns ~/.subtext/subtext.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".subtext", "subtext.yaml"), nil
}

// Load reads the configuration from the default path, creating it with
// defaults on first run.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path, creating it
// with defaults when missing.
func LoadFrom(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	cfg.History.Path = ExpandHome(cfg.History.Path)
	cfg.Logging.Dir = ExpandHome(cfg.Logging.Dir)
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandHome replaces a leading ~ with the user's home directory.
// Paths without a leading ~ are returned unchanged, as is everything
// when the home directory cannot be resolved.
func ExpandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
