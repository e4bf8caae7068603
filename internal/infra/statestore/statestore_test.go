package statestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
)

func TestStore_SetGetDelete(t *testing.T) {
	s, err := statestore.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if _, ok, err := s.Get(ctx, statestore.KeyToken); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, statestore.KeyToken, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, statestore.KeyToken)
	if err != nil || !ok || v != "tok-1" {
		t.Fatalf("expected tok-1, got %q ok=%v err=%v", v, ok, err)
	}

	// Last writer wins on the same key.
	if err := s.Set(ctx, statestore.KeyToken, "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, statestore.KeyToken)
	if v != "tok-2" {
		t.Errorf("expected tok-2 after overwrite, got %q", v)
	}

	if err := s.Delete(ctx, statestore.KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, statestore.KeyToken); ok {
		t.Error("expected key gone after delete")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete(ctx, statestore.KeyToken); err != nil {
		t.Errorf("delete absent: %v", err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := statestore.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(context.Background(), statestore.KeyTenantID, "MJ-10001"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := statestore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get(context.Background(), statestore.KeyTenantID)
	if err != nil || !ok || v != "MJ-10001" {
		t.Fatalf("expected persisted tenant id, got %q ok=%v err=%v", v, ok, err)
	}
}
