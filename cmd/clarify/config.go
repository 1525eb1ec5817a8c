package main

import (
	"fmt"
	"os"
	"path/filepath"

	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
	"gopkg.in/yaml.v3"
)

const (
	// projectConfigFile is looked up in the working directory.
	projectConfigFile = "clarify.yaml"
	// userConfigDir holds the user-level config below the home directory.
	userConfigDir  = ".config/clarify"
	userConfigFile = "config.yaml"

	envBaseURL = "CLARIFY_BASE_URL"
	envAPIKey  = "CLARIFY_API_KEY"
)

// fileConfig is the YAML shape of a clarify config file.
type fileConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// cliConfig is the resolved configuration after applying precedence.
type cliConfig struct {
	BaseURL string
	APIKey  string
}

// BaseURLOrDefault returns the configured base URL or the SDK default.
func (c cliConfig) BaseURLOrDefault() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}

	return clarifysdk.DefaultBaseURL
}

// resolveConfig merges the configuration sources. Precedence, highest first:
// command line flags, environment variables, config file. An explicitly
// passed config path must exist; the default locations are optional.
func resolveConfig(flagBaseURL, flagAPIKey, configPath string) (cliConfig, error) {
	cfg := cliConfig{}

	file, err := loadFileConfig(configPath)
	if err != nil {
		return cliConfig{}, err
	}
	cfg.BaseURL = file.BaseURL
	cfg.APIKey = file.APIKey

	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}

	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}

	return cfg, nil
}

// loadFileConfig reads the config file at path, or searches the default
// locations when path is empty. A missing default file is not an error.
func loadFileConfig(path string) (fileConfig, error) {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return fileConfig{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing default config location:
// clarify.yaml in the working directory, then ~/.config/clarify/config.yaml.
func findConfigFile() string {
	if _, err := os.Stat(projectConfigFile); err == nil {
		return projectConfigFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	userPath := filepath.Join(home, userConfigDir, userConfigFile)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}

	return ""
}
