// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// Global is the singleton configuration. Populated by Load or
	// LoadFrom; the first call wins.
	Global SaltlineConfig
	once   sync.Once
)

// Load reads the config from the default path into Global, creating a
// default file on first run.
func Load() error {
	var err error
	once.Do(func() {
		var path string
		path, err = defaultPath()
		if err != nil {
			return
		}
		err = loadInternal(path, true)
	})
	return err
}

// LoadFrom reads the config from an explicit path into Global. The file
// must exist; no default is created.
func LoadFrom(path string) error {
	var err error
	once.Do(func() {
		err = loadInternal(path, false)
	})
	return err
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".saltline", "saltline.yaml"), nil
}

func loadInternal(path string, createMissing bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !createMissing {
			return fmt.Errorf("config file not found: %s", path)
		}
		fmt.Fprintf(os.Stderr, "First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}

	Global.normalize()
	return nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
