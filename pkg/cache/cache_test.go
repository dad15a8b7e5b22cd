package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// LayoutKey should include options in hash
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{PaperSize: "A4", MaxPages: 2})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{PaperSize: "Letter", MaxPages: 2})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	// The measured flag caches estimate and corrected sequences separately
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{PaperSize: "A4", MaxPages: 2, Measured: true})
	if lk1 == lk3 {
		t.Error("Measured and estimated sequences must not share a key")
	}

	// Same inputs produce the same key
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{PaperSize: "A4", MaxPages: 2}) {
		t.Error("LayoutKey should be deterministic")
	}

	// ArtifactKey varies with format
	ak1 := k.ArtifactKey("layouthash", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("layouthash", ArtifactKeyOpts{Format: "pdf"})
	if ak1 == ak2 {
		t.Error("Different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user42:")

	opts := LayoutKeyOpts{PaperSize: "A4"}
	key := scoped.LayoutKey("hash", opts)
	if key != "user42:"+inner.LayoutKey("hash", opts) {
		t.Errorf("scoped key = %q", key)
	}

	// nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if fallback.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) != "p:"+inner.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("nil inner keyer should default")
	}
}
