package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`

	DataDir    string `yaml:"data_dir,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
	FormatsDir string `yaml:"formats_dir,omitempty"`

	Gallery  GalleryConfig  `yaml:"gallery"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// GalleryConfig is the house style injected into every generation request
type GalleryConfig struct {
	Name       string   `yaml:"name"`
	AvoidNames []string `yaml:"avoid_names,omitempty"`
}

type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type IngestConfig struct {
	Workers int `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Model:    "gpt-4o",
		LogLevel: "info",
		Gallery: GalleryConfig{
			Name:       "Castle Fine Art",
			AvoidNames: []string{"Castle Galleries"},
		},
		Chunking: ChunkingConfig{Size: 500, Overlap: 50},
		Ingest:   IngestConfig{Workers: 1},
	}
}

func ConfigDir() (string, error) {
	if dir := os.Getenv("COPYWRITER_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "copywriter"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogPath is where the application log is written; the TUI owns stdout
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "copywriter.log"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. It returns nil, nil when no config exists yet.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file, fills unset fields with defaults and
// applies environment overrides. A missing file returns nil, nil.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv fills an empty API key from the provider's environment variable
func (c *Config) ApplyEnv() {
	if c.APIKey != "" {
		return
	}
	if info := GetProvider(c.Provider); info != nil && info.EnvKey != "" {
		c.APIKey = os.Getenv(info.EnvKey)
	}
}

func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("provider is required")
	}
	if c.Gallery.Name == "" {
		return errors.New("gallery.name is required")
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, %d), got %d", c.Chunking.Size, c.Chunking.Overlap)
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1, got %d", c.Ingest.Workers)
	}
	return nil
}

// ResolveDataDir returns the directory holding the database and uploaded files
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
