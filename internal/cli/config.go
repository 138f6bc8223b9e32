package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "armschema.toml"

// Config is the TOML configuration for corpus runs.
type Config struct {
	// CorpusRoot is the directory holding the schema corpus.
	CorpusRoot string `toml:"corpus_root"`

	// MirrorPrefix is the published URI prefix rewritten to the corpus root.
	MirrorPrefix string `toml:"mirror_prefix"`

	// Workers bounds check parallelism. Zero means one worker per CPU.
	Workers int `toml:"workers"`

	// KnownCyclic lists documents whose cycles are reported as skipped.
	KnownCyclic []string `toml:"known_cyclic"`

	// KnownFailing lists documents excluded from checking entirely.
	KnownFailing []string `toml:"known_failing"`

	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// CacheConfig selects the result-cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the host:port of the Redis instance for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// HistoryConfig configures the optional MongoDB run-history store.
type HistoryConfig struct {
	// MongoURI enables history storage when non-empty.
	MongoURI string `toml:"mongo_uri"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	// Addr is the listen address for the serve command.
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		CorpusRoot:   ".",
		MirrorPrefix: loader.DefaultMirrorPrefix,
		Cache:        CacheConfig{Backend: "file"},
		Server:       ServerConfig{Addr: "127.0.0.1:8321"},
	}
}

// LoadConfig reads the TOML config at path. An empty path falls back to
// armschema.toml in the working directory; if that is absent too, defaults
// are returned. An explicit path that does not exist is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
