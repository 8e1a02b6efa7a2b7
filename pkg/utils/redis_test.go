package utils

import (
	"testing"
	"time"
)

func TestRedisConfig_Defaults(t *testing.T) {
	got := RedisConfig{Addr: "localhost:6379"}.withDefaults()
	if got.DialTimeout != 3*time.Second || got.PoolSize != 4 || got.PingTimeout != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestRedisConfig_ExplicitValuesKept(t *testing.T) {
	got := RedisConfig{Addr: "localhost:6379", PoolSize: 11, ReadTimeout: time.Second}.withDefaults()
	if got.PoolSize != 11 || got.ReadTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", got)
	}
}
