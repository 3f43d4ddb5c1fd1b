package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"listkeeper/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := OpenSQLite(context.Background(), dbPath, Options{SkipSeed: true})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func collect(t *testing.T, store Store) []model.List {
	t.Helper()
	var lists []model.List
	for list, err := range store.All(context.Background()) {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		lists = append(lists, list)
	}
	return lists
}

func TestSQLiteStore_SeedsSampleOnce(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "todo.db")

	store, err := OpenSQLite(ctx, dbPath, Options{})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	lists := collect(t, store)
	if len(lists) != 1 {
		t.Fatalf("lists=%d, want 1 seeded list", len(lists))
	}
	if lists[0].Title != SampleListTitle {
		t.Fatalf("Title=%q, want %q", lists[0].Title, SampleListTitle)
	}
	if len(lists[0].Items) != 3 || lists[0].Items[1].Content != "Feed the Unicorns" {
		t.Fatalf("sample items unexpected: %+v", lists[0].Items)
	}
	_ = store.Close()

	// 重新打开不应再次写入示例 / Reopening must not seed again
	store2, err := OpenSQLite(ctx, dbPath, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store2.Close()
	if got := len(collect(t, store2)); got != 1 {
		t.Fatalf("lists after reopen=%d, want 1", got)
	}
}

func TestSQLiteStore_PutInsertThenUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	list := model.NewList("Groceries", time.Now())
	id, err := store.Put(ctx, *list)
	if err != nil {
		t.Fatalf("Put insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("id=%d, want 1", id)
	}

	list.ID = id
	list.Title = "Weekly groceries"
	model.AddItem(list, model.NewItem("Buy milk"))
	id2, err := store.Put(ctx, *list)
	if err != nil {
		t.Fatalf("Put update: %v", err)
	}
	if id2 != id {
		t.Fatalf("update id=%d, want %d", id2, id)
	}

	lists := collect(t, store)
	if len(lists) != 1 {
		t.Fatalf("lists=%d, want 1", len(lists))
	}
	got := lists[0]
	if got.Title != "Weekly groceries" {
		t.Fatalf("Title=%q, want %q", got.Title, "Weekly groceries")
	}
	if len(got.Items) != 1 || got.Items[0].Content != "Buy milk" || got.Items[0].ID != list.Items[0].ID {
		t.Fatalf("items unexpected: %+v", got.Items)
	}
	if !got.Created.Equal(list.Created) {
		t.Fatalf("Created=%v, want %v", got.Created, list.Created)
	}
}

func TestSQLiteStore_PutWithUnknownIDInserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	list := model.NewList("restored", time.Now())
	list.ID = 42
	id, err := store.Put(ctx, *list)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if id != 42 {
		t.Fatalf("id=%d, want 42", id)
	}
	got, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "restored" {
		t.Fatalf("Title=%q", got.Title)
	}

	next, err := store.Put(ctx, *model.NewList("next", time.Now()))
	if err != nil {
		t.Fatalf("Put next: %v", err)
	}
	if next <= 42 {
		t.Fatalf("generated id=%d, want > 42", next)
	}
}

func TestSQLiteStore_PutRejectsNegativeID(t *testing.T) {
	store := newTestStore(t)
	list := model.NewList("bad", time.Now())
	list.ID = -3
	if _, err := store.Put(context.Background(), *list); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err=%v, want ErrWriteFailed", err)
	}
}

func TestSQLiteStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, *model.NewList("gone soon", time.Now()))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if err := store.Delete(ctx, 9999); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err=%v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_AllKeyOrderAndEarlyStop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := store.Put(ctx, *model.NewList(title, time.Now())); err != nil {
			t.Fatalf("Put %s: %v", title, err)
		}
	}

	lists := collect(t, store)
	if len(lists) != 3 || lists[0].Title != "a" || lists[2].Title != "c" {
		t.Fatalf("unexpected order: %+v", lists)
	}

	seen := 0
	for _, err := range store.All(ctx) {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("seen=%d, want 1", seen)
	}

	// 每次调用都是新游标 / every call restarts
	if got := len(collect(t, store)); got != 3 {
		t.Fatalf("second pass=%d, want 3", got)
	}
}

func TestSQLiteStore_FindByTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"Work", "Home", "Work"} {
		if _, err := store.Put(ctx, *model.NewList(title, time.Now())); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	lists, err := store.FindByTitle(ctx, "Work")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("matches=%d, want 2", len(lists))
	}
}

func TestSQLiteStore_NotInitialized(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lazy.db"), Options{SkipSeed: true})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	select {
	case <-store.Ready():
		t.Fatal("Ready closed before Initialize")
	default:
	}

	if _, err := store.Put(ctx, *model.NewList("x", time.Now())); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Put err=%v, want ErrStoreUnavailable", err)
	}
	for _, err := range store.All(ctx) {
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("All err=%v, want ErrStoreUnavailable", err)
		}
	}

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	select {
	case <-store.Ready():
	default:
		t.Fatal("Ready not closed after Initialize")
	}
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
}

func TestSQLiteStore_InitializeFailureLeavesStoreUnset(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewSQLiteStore(filepath.Join(blocker, "todo.db"), Options{})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Initialize err=%v, want ErrStoreUnavailable", err)
	}
	select {
	case <-store.Ready():
		t.Fatal("Ready closed after failed Initialize")
	default:
	}
}

func TestSQLiteStore_ClosedStoreIsUnavailable(t *testing.T) {
	store := newTestStore(t)
	_ = store.Close()
	if _, err := store.Put(context.Background(), *model.NewList("x", time.Now())); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Put err=%v, want ErrStoreUnavailable", err)
	}
	if err := store.Initialize(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Initialize err=%v, want ErrStoreUnavailable", err)
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore("  ", Options{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
