package config

import "testing"

func TestValidate_RejectsEmptyConfig(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_FileBackendDefaultsPath(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Snapshot: SnapshotConfig{Backend: BackendFile},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Snapshot.Path != "callops-state.json" {
		t.Fatalf("expected default snapshot path, got %q", c.Snapshot.Path)
	}
}

func TestValidate_RedisBackendRequiresHost(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Snapshot: SnapshotConfig{Backend: BackendRedis},
		Redis:    RedisConfig{Port: 6379},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for redis backend without REDIS_HOST")
	}
}

func TestValidate_PostgresProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "production", Port: 8080},
		Snapshot: SnapshotConfig{Backend: BackendPostgres},
		DB:       DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "callops", SSLMode: ""},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_PostgresLocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Snapshot: SnapshotConfig{Backend: BackendPostgres},
		DB:       DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "callops", SSLMode: ""},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Snapshot: SnapshotConfig{Backend: "s3"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown snapshot backend")
	}
}
