// Package scaffold writes a starter dogroom.yml for `dogroom init`.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/dogroom/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// CheckExisting returns an error if dir already holds a dogroom.yml.
func CheckExisting(dir string) error {
	path := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project already initialized\n\nFound existing: %s\n\nUse 'dogroom init --force' to overwrite it", config.DefaultPath)
	}
	return nil
}

// Initialize writes the starter configuration into dir and returns its path.
// An existing file is only replaced when force is true.
func Initialize(dir string, force bool) (string, error) {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return "", err
		}
	}

	content, err := templatesFS.ReadFile("templates/dogroom.yml.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to read dogroom.yml template: %w", err)
	}

	path := filepath.Join(dir, config.DefaultPath)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	// The template must load like any user-edited file
	if _, err := config.Load(path); err != nil {
		return "", fmt.Errorf("created %s is invalid: %w", config.DefaultPath, err)
	}
	return path, nil
}
