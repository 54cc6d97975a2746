package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Store.Backend != "sqlite" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[analysis]
workers = 4

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "36h"
prefix = "staging:"

[store]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Prefix != "staging:" {
		t.Errorf("Prefix = %q, want staging:", cfg.Cache.Prefix)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("TTL = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.Store.Backend != "memory" || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Store/Server = %+v / %+v", cfg.Store, cfg.Server)
	}
	// Untouched keys keep their defaults.
	if cfg.Store.Database != "brickfall" {
		t.Errorf("Database = %q, want default", cfg.Store.Database)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", "[analysis\nworkers = 1"},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"negative workers", "[analysis]\nworkers = -1"},
		{"unknown cache", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"unknown store", "[store]\nbackend = \"postgres\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Decode error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvMongoURI, "")

	// Missing default file is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Backend = %q, want default", cfg.Cache.Backend)
	}

	path := filepath.Join(dir, "brickfall", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[analysis]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Analysis.Workers)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("explicit missing file error = %v, want INVALID_PATH", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}
