package store

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	if _, found, err := kv.Get(ctx, "missing"); err != nil || found {
		t.Errorf("Expected absent key, got found=%v err=%v", found, err)
	}

	if err := kv.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, found, err := kv.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("v1")) {
		t.Errorf("Expected v1, got %q", value)
	}

	// Overwrite
	if err := kv.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	value, _, _ = kv.Get(ctx, "k")
	if !bytes.Equal(value, []byte("v2")) {
		t.Errorf("Expected v2 after overwrite, got %q", value)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	original := []byte("stable")
	if err := kv.Set(ctx, "k", original); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	original[0] = 'X'

	value, _, _ := kv.Get(ctx, "k")
	if !bytes.Equal(value, []byte("stable")) {
		t.Errorf("Stored value aliased the caller's slice: %q", value)
	}

	value[0] = 'Y'
	again, _, _ := kv.Get(ctx, "k")
	if !bytes.Equal(again, []byte("stable")) {
		t.Errorf("Returned value aliased the stored slice: %q", again)
	}
}
