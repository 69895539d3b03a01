package utils

import (
	"context"
	"testing"
	"time"
)

func TestPostgresConfigDefaults(t *testing.T) {
	p := PostgresConfig{}.withDefaults()
	if p.Driver != "pgx" || p.MaxOpenConns != 10 || p.MaxIdleConns != 10 || p.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = PostgresConfig{MaxOpenConns: 4, MaxIdleConns: 8, ConnMaxLifetime: time.Minute}.withDefaults()
	if p.MaxOpenConns != 4 || p.MaxIdleConns != 4 {
		t.Fatalf("expected idle conns capped at open conns, got %+v", p)
	}
	if p.ConnMaxLifetime != time.Minute {
		t.Fatalf("expected explicit lifetime to be kept, got %v", p.ConnMaxLifetime)
	}
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), PostgresConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenPostgres_UnknownDriver(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), PostgresConfig{Driver: "nope", DSN: "postgres://x"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenPostgres_Unreachable(t *testing.T) {
	_, err := OpenPostgres(context.Background(), PostgresConfig{
		DSN:         "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1",
		PingTimeout: 2 * time.Second,
	})
	if err == nil {
		t.Fatalf("expected ping failure")
	}
}
