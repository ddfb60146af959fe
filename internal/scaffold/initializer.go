// Package scaffold creates the starter configuration for a new moot
// project.
package scaffold

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/moot/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

const configFile = "moot.yml"

// CheckExisting returns an error if a moot.yml already exists in the
// current directory.
func CheckExisting() error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("project already initialized\n\nFound existing: %s\n\nUse 'moot init --force' to reinitialize (this will overwrite the existing configuration)", configFile)
	}
	return nil
}

// Initialize writes the default moot.yml into the current directory.
// If force is true, an existing moot.yml is removed first.
func Initialize(force bool) error {
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	content, err := templatesFS.ReadFile("templates/moot.yml.tmpl")
	if err != nil {
		return fmt.Errorf("failed to read moot.yml template: %w", err)
	}

	if err := os.WriteFile(configFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFile, err)
	}

	return validateCreatedFile()
}

// handleForce removes an existing moot.yml if --force was specified
func handleForce() error {
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("⚠️  Removing existing %s...\n", configFile)
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("failed to remove %s: %w", configFile, err)
		}
	}
	return nil
}

// validateCreatedFile checks that the written config parses and passes
// the same validation 'moot run' applies.
func validateCreatedFile() error {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", configFile, err)
	}

	var cfg config.MootConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return fmt.Errorf("created %s is not valid YAML: %w", configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("created %s failed validation: %w", configFile, err)
	}

	return nil
}

// PrintSuccess prints the success message after initialization
func PrintSuccess() {
	fmt.Println("\n✅ Successfully initialized moot project!")
	fmt.Println("\nCreated:")
	fmt.Printf("  ✓ %s\n", configFile)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set your model API key (GEMINI_API_KEY by default)")
	fmt.Println("  2. Customize moot.yml to enable or disable analysts")
	fmt.Println("  3. Run 'moot run --query \"...\"' to start an analysis")
}
