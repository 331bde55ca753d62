package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}
	if err := s.Set("k", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `{"a":2}` {
		t.Fatalf("unexpected value %q", v)
	}
	if err := s.Remove("k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatal("expected key to be gone")
	}
	if err := s.Remove("never-set"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestGormStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "device.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewGormStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	exerciseStorage(t, s)

	if err := s.Set("bad", "not json"); !errors.Is(err, ErrNotJSON) {
		t.Fatalf("expected ErrNotJSON, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	exerciseStorage(t, NewRedisStore(client, "tablefy-test:"))
}

func TestLoadJSONToleratesCorruptValues(t *testing.T) {
	s := NewMemory()
	var out []string
	if LoadJSON(s, "absent", &out) {
		t.Fatal("absent key must report false")
	}
	s.Set("corrupt", "{not json")
	if LoadJSON(s, "corrupt", &out) {
		t.Fatal("corrupt value must report false")
	}
	if err := SaveJSON(s, "list", []string{"a", "b"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !LoadJSON(s, "list", &out) || len(out) != 2 || out[1] != "b" {
		t.Fatalf("unexpected decode: %v", out)
	}
}

func TestBreadcrumbs(t *testing.T) {
	b := NewBreadcrumbs(NewMemory())
	if b.LastOrderID() != "" || b.LastTableID() != "" {
		t.Fatal("expected empty breadcrumbs")
	}
	b.SetLastOrderID("o-1")
	b.SetLastTableID("t-9")
	if b.LastOrderID() != "o-1" {
		t.Fatalf("last order: %q", b.LastOrderID())
	}
	if b.LastTableID() != "t-9" {
		t.Fatalf("last table: %q", b.LastTableID())
	}
}
