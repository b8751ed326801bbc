package db

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateCreatesPostsTable(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, Config{DBURL: ":memory:", Driver: "sqlite3"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	conn.SetMaxOpenConns(1)

	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Running again is a no-op.
	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO posts (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		"1", "A", "a@x.com", time.Now().UTC())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d rows, want 1", count)
	}
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("DB_URL", "")
	if _, err := LoadDBConfig(); err == nil {
		t.Error("expected an error without DB_URL")
	}

	t.Setenv("DB_URL", "postgres://localhost/posts")
	cfg, err := LoadDBConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBURL != "postgres://localhost/posts" || cfg.Driver != "postgres" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestRedisCache(t *testing.T) {
	cfg, ok := LoadRedisConfig()
	if !ok {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	cache := &RedisCache{Client: client}
	key := "posts-app:test:" + time.Now().Format(time.RFC3339Nano)

	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
	if err := cache.Set(ctx, key, []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := cache.Get(ctx, key)
	if err != nil || string(got) != `[]` {
		t.Fatalf("get: %q, %v", got, err)
	}
	if err := cache.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected cache miss after delete, got %v", err)
	}
}
