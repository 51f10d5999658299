package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the command-line flags.
type FileConfig struct {
	URL    string `yaml:"url" json:"url"`
	Output string `yaml:"output" json:"output"`

	Max struct {
		Items      int `yaml:"items" json:"items"`
		Concurrent int `yaml:"concurrent" json:"concurrent"`
	} `yaml:"max" json:"max"`

	ChunkSize int `yaml:"chunkSize" json:"chunkSize"`

	Browser bool `yaml:"browser" json:"browser"`

	Cache struct {
		Dir   string `yaml:"dir" json:"dir"`
		Clear bool   `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	UserAgent string `yaml:"userAgent" json:"userAgent"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON.
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays FileConfig values into cfg for fields still at
// their zero or default value. Flags parsed before the overlay win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.BaseURL == "" && fc.URL != "" {
		cfg.BaseURL = fc.URL
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if (cfg.MaxItems == 0 || cfg.MaxItems == defaultMaxItems) && fc.Max.Items > 0 {
		cfg.MaxItems = fc.Max.Items
	}
	if (cfg.MaxConcurrent == 0 || cfg.MaxConcurrent == defaultMaxConcurrent) && fc.Max.Concurrent > 0 {
		cfg.MaxConcurrent = fc.Max.Concurrent
	}
	if (cfg.ChunkSize == 0 || cfg.ChunkSize == defaultChunkSize) && fc.ChunkSize > 0 {
		cfg.ChunkSize = fc.ChunkSize
	}
	if !cfg.UseBrowser && fc.Browser {
		cfg.UseBrowser = true
	}
	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
