package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_Format(t *testing.T) {
	if got := Key("score", "abc", "en"); got != "score:abc:en" {
		t.Errorf("Expected score:abc:en, got %q", got)
	}
	if got := Key("score"); got != "score" {
		t.Errorf("Expected bare kind, got %q", got)
	}
}

func TestHashText_Deterministic(t *testing.T) {
	a := HashText("The Earth is 4.5 billion years old.")
	b := HashText("The Earth is 4.5 billion years old.")
	if a != b {
		t.Errorf("Expected stable hash, got %q vs %q", a, b)
	}
}

func TestHashText_Sensitivity(t *testing.T) {
	base := HashText("the earth is old")
	if HashText("The earth is old") == base {
		t.Error("Expected hash to be case sensitive")
	}
	if HashText("old is earth the") == base {
		t.Error("Expected hash to be order sensitive")
	}
}

func TestClaimKey_EmbedsHash(t *testing.T) {
	key := ClaimKey("norm", "some claim text")
	if !strings.HasPrefix(key, "norm:") {
		t.Errorf("Expected norm: prefix, got %q", key)
	}
	if strings.Contains(key, "some claim text") {
		t.Errorf("Expected claim text hashed, got %q", key)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Expected hit with v, got %q ok=%v", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestLayeredCache_DiskFallback(t *testing.T) {
	dir := t.TempDir()

	c := NewLayeredCache(time.Minute, time.Minute, dir, time.Hour)
	if err := c.Set("k", []byte("layered"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A fresh layered cache over the same directory should hit the disk
	// layer after losing the memory layer.
	fresh := NewLayeredCache(time.Minute, time.Minute, dir, time.Hour)
	got, ok := fresh.Get("k")
	if !ok || string(got) != "layered" {
		t.Errorf("Expected disk-layer hit, got %q ok=%v", got, ok)
	}
}
