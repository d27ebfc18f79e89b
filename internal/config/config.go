package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional statement-parser.yaml configuration. Flags and
// environment variables take precedence over values found here.
type File struct {
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	Producer     string `yaml:"producer"` // "gemini" or "ollama"
	OllamaURL    string `yaml:"ollama_url"`
	TesseractCmd string `yaml:"tesseract_cmd"`
	HistoryDB    string `yaml:"history_db"`
	StorageDir   string `yaml:"storage_dir"`
}

// Load reads a yaml config file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOptional reads a config file when it exists and returns an empty
// config otherwise.
func LoadOptional(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &File{}, nil
	}
	return Load(path)
}
