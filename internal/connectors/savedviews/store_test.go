package savedviews

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "views.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetByToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "weekly t1 review", "cdf", "?chip=CHIP01&params=t1")
	if err != nil {
		t.Fatalf("failed to save view: %v", err)
	}
	if saved.Token == "" {
		t.Fatalf("expected a token to be minted")
	}
	if saved.QueryString != "chip=CHIP01&params=t1" {
		t.Fatalf("expected leading ? stripped, got %q", saved.QueryString)
	}

	got, err := s.GetByToken(ctx, saved.Token)
	if err != nil {
		t.Fatalf("failed to fetch by token: %v", err)
	}
	if got.Name != "weekly t1 review" || got.Page != "cdf" {
		t.Fatalf("unexpected view: %+v", got)
	}
}

func TestSaveUpsertsKeepsToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "daily", "chip", "chip=CHIP01")
	if err != nil {
		t.Fatalf("failed to save view: %v", err)
	}
	second, err := s.Save(ctx, "daily", "chip", "chip=CHIP02&view=2q")
	if err != nil {
		t.Fatalf("failed to re-save view: %v", err)
	}

	if second.Token != first.Token {
		t.Fatalf("expected token to survive upsert: %q vs %q", first.Token, second.Token)
	}
	if second.QueryString != "chip=CHIP02&view=2q" {
		t.Fatalf("expected query string replaced, got %q", second.QueryString)
	}
}

func TestSaveRejectsUnknownPage(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(context.Background(), "x", "flows", ""); err == nil {
		t.Fatalf("expected unknown page error")
	}
}

func TestDeleteByToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "tmp", "histogram", "param=t1")
	if err != nil {
		t.Fatalf("failed to save view: %v", err)
	}

	deleted, err := s.DeleteByToken(ctx, saved.Token)
	if err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one row deleted, got %d", deleted)
	}

	if _, err := s.GetByToken(ctx, saved.Token); err == nil {
		t.Fatalf("expected lookup to fail after delete")
	}

	items, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}
