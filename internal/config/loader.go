package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	pkgconfig "github.com/starosca/pool-indexer/pkg/config"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvRPCURL         = "BASE_SEPOLIA_RPC_URL"
	EnvFactoryAddress = "FACTORY_ADDRESS"
	EnvPort           = "PORT"
)

var decoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
	".toml": toml.Unmarshal,
}

// LoadFromFile loads configuration from a file, auto-detecting the format by extension.
// Supported formats: .yaml, .yml, .json, .toml
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json, .toml)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg pkgconfig.Config
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s config: %w", strings.TrimPrefix(ext, "."), err)
	}

	return process(&cfg)
}

// process applies environment overrides and defaults, then validates.
func process(cfg *pkgconfig.Config) (*pkgconfig.Config, error) {
	applyEnv(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *pkgconfig.Config) {
	if v := os.Getenv(EnvRPCURL); v != "" {
		cfg.Indexer.RPCURL = v
	}

	if v := os.Getenv(EnvFactoryAddress); v != "" {
		cfg.Indexer.FactoryAddress = v
	}

	if v := os.Getenv(EnvPort); v != "" {
		if cfg.API == nil {
			cfg.API = &pkgconfig.APIConfig{Enabled: true}
		}
		cfg.API.ListenAddress = ":" + v
	}
}
