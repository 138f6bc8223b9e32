package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "armschema.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// No config file in a scratch working directory.
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.CorpusRoot != "." {
		t.Errorf("CorpusRoot = %q, want %q", cfg.CorpusRoot, ".")
	}
	if cfg.MirrorPrefix != loader.DefaultMirrorPrefix {
		t.Errorf("MirrorPrefix = %q, want default", cfg.MirrorPrefix)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
corpus_root = "schemas"
workers = 8
known_cyclic = ["a.json", "b/c.json"]

[cache]
backend = "none"

[history]
mongo_uri = "mongodb://localhost:27017"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.CorpusRoot != "schemas" {
		t.Errorf("CorpusRoot = %q", cfg.CorpusRoot)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if len(cfg.KnownCyclic) != 2 {
		t.Errorf("KnownCyclic = %v", cfg.KnownCyclic)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.History.MongoURI == "" {
		t.Error("History.MongoURI not parsed")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() with missing explicit path should fail")
	}
}

func TestLoadConfig_BadTOML(t *testing.T) {
	path := writeConfig(t, `corpus_root = [`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with invalid TOML should fail")
	}
}

func TestLoadConfig_RedisWithoutAddr(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("redis backend without redis_addr should fail validation")
	}
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memcached"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown cache backend should fail validation")
	}
}
