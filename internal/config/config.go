// Package config loads tamiz configuration from a YAML file in the storage
// directory, with environment variable overrides.
package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"tamiz/internal/stream"
)

const (
	DefaultStorageDir = ".tamiz"
	ConfigFileName    = "config.yaml"
)

// ClientConfig holds settings for a single coding-agent client.
type ClientConfig struct {
	BinPath string            `yaml:"bin_path"`
	Models  map[string]string `yaml:"models,omitempty"` // tier -> model name
}

type Config struct {
	StorageDir       string                  `yaml:"storage_dir"`
	DefaultClient    string                  `yaml:"default_client"`
	DefaultModelTier string                  `yaml:"default_model_tier,omitempty"`
	Clients          map[string]ClientConfig `yaml:"clients,omitempty"`
	Tags             []string                `yaml:"tags,omitempty"`         // tag vocabularies to extract
	IncludeTags      bool                    `yaml:"include_tags,omitempty"` // keep delimiters in rendered output
}

func GetDefaultStoragePath() string {
	usr, _ := user.Current()
	return filepath.Join(usr.HomeDir, DefaultStorageDir)
}

func Load() (*Config, error) {
	storageDir := os.Getenv("TAMIZ_STORAGE_DIR")
	if storageDir == "" {
		storageDir = GetDefaultStoragePath()
	}

	cfg := &Config{
		StorageDir:    storageDir,
		DefaultClient: "gemini",
		Tags:          stream.DefaultVocabularies,
	}

	cfgPath := filepath.Join(cfg.StorageDir, ConfigFileName)
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if envClient := os.Getenv("TAMIZ_DEFAULT_CLIENT"); envClient != "" {
		cfg.DefaultClient = envClient
	}
	if envTags := os.Getenv("TAMIZ_TAGS"); envTags != "" {
		cfg.Tags = nil
		for _, tag := range strings.Split(envTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				cfg.Tags = append(cfg.Tags, tag)
			}
		}
	}
	if envInclude := os.Getenv("TAMIZ_INCLUDE_TAGS"); envInclude != "" {
		cfg.IncludeTags = envInclude == "1" || strings.EqualFold(envInclude, "true")
	}
	if envDir := os.Getenv("TAMIZ_STORAGE_DIR"); envDir != "" {
		cfg.StorageDir = envDir
	}

	if len(cfg.Clients) == 0 {
		cfg.Clients = map[string]ClientConfig{
			"gemini": {BinPath: "gemini"},
		}
	}
	if cfg.DefaultClient == "" {
		cfg.DefaultClient = "gemini"
	}

	os.MkdirAll(cfg.StorageDir, 0755)
	os.MkdirAll(filepath.Join(cfg.StorageDir, "sessions"), 0755)

	return cfg, nil
}
