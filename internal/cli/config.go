package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the optional on-disk configuration. Flags always override it.
//
// Example standardmorph.toml:
//
//	delimiter = " "
//	convention = "AIND"
//	distance_threshold = 50.0
//
//	[serve]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "standardmorph"
type Config struct {
	Delimiter         string  `toml:"delimiter"`
	Convention        string  `toml:"convention"`
	DistanceThreshold float64 `toml:"distance_threshold"`

	Serve ServeConfig `toml:"serve"`
}

// ServeConfig configures the serve command's backends.
type ServeConfig struct {
	Addr          string `toml:"addr"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Serve: ServeConfig{
			Addr:          ":8080",
			MongoDatabase: appName,
		},
	}
}

// LoadConfig reads the TOML file at path, layered over DefaultConfig.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultConfig().Serve.Addr
	}
	if cfg.Serve.MongoDatabase == "" {
		cfg.Serve.MongoDatabase = appName
	}
	return cfg, nil
}
