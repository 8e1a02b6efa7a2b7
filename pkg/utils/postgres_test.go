package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfig_Defaults(t *testing.T) {
	got := PostgresPoolConfig{}.withDefaults()
	if got.MaxOpenConns != 4 || got.MaxIdleConns != 2 {
		t.Fatalf("unexpected pool defaults: %+v", got)
	}
	if got.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected ping timeout: %v", got.PingTimeout)
	}
}

func TestPostgresPoolConfig_ExplicitValuesKept(t *testing.T) {
	got := PostgresPoolConfig{MaxOpenConns: 9, ConnMaxLifetime: time.Hour}.withDefaults()
	if got.MaxOpenConns != 9 || got.ConnMaxLifetime != time.Hour {
		t.Fatalf("explicit values overridden: %+v", got)
	}
}
