package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_PingsServer(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	mr.RequireAuth("s3cret")

	rdb, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr(), Password: "s3cret"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rdb.Close()

	if err := PingRedis(context.Background(), rdb, time.Second); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenRedis_WrongPassword(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	mr.RequireAuth("s3cret")

	if _, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr(), Password: "nope"}); err == nil {
		t.Fatalf("expected auth failure")
	}
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := OpenRedis(context.Background(), RedisConfig{Addr: "localhost:6379", DB: -1}); err == nil {
		t.Fatalf("expected error for negative db")
	}
}

func TestPingRedis_ServerGone(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rdb.Close()

	mr.Close()
	if err := PingRedis(context.Background(), rdb, 500*time.Millisecond); err == nil {
		t.Fatalf("expected ping failure after server shutdown")
	}
	if err := PingRedis(context.Background(), nil, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestRedisConfigDefaults(t *testing.T) {
	c := RedisConfig{Addr: "x"}.withDefaults()
	if c.PoolSize != 20 || c.DialTimeout != 3*time.Second || c.PingTimeout != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}
