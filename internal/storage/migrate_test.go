package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"listkeeper/internal/model"
)

func TestExportImportJSON(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	at := model.Millis(time.Now().Add(time.Hour))
	list := model.NewList("Groceries", time.Now())
	model.AddItem(list, model.NewItem("Buy milk"))
	model.AddItem(list, model.Item{Content: "Call mom", ReminderEnabled: true, ReminderAt: &at, ReminderHandle: "h-1"})
	if _, err := src.Put(ctx, *list); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var buf bytes.Buffer
	n, err := ExportJSON(ctx, src, &buf)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if n != 1 {
		t.Fatalf("exported=%d, want 1", n)
	}

	dst := newTestStore(t)
	imported, err := ImportJSON(ctx, dst, &buf, nil)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if imported != 1 {
		t.Fatalf("imported=%d, want 1", imported)
	}

	lists := collect(t, dst)
	if len(lists) != 1 {
		t.Fatalf("lists=%d, want 1", len(lists))
	}
	got := lists[0]
	if got.Title != "Groceries" || len(got.Items) != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got.Items[0].ID != list.Items[0].ID {
		t.Fatalf("item id=%q, want %q", got.Items[0].ID, list.Items[0].ID)
	}
	reminder := got.Items[1]
	if !reminder.ReminderEnabled || reminder.ReminderAt == nil || !reminder.ReminderAt.Equal(at) {
		t.Fatalf("reminder not carried: %+v", reminder)
	}
	if reminder.ReminderHandle != "" {
		t.Fatalf("handle=%q, want empty after import", reminder.ReminderHandle)
	}
}

func TestImportJSON_LegacyRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	legacy := `[
	  {"id": 7, "title": "Old list", "created": 1400000000000, "modified": 1400000001000,
	   "items": [
	     {"content": "Paint Rainbows", "notes": "", "completed": true, "alarmIsSet": false, "alarm": 1400000000000},
	     {"content": "Feed the Unicorns", "notes": "hay", "completed": false, "alarmIsSet": true, "alarm": "2030-05-01T10:00"},
	     {"content": "", "alarmIsSet": true, "alarm": null}
	   ]}
	]`
	n, err := ImportJSON(ctx, store, strings.NewReader(legacy), nil)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported=%d, want 1", n)
	}

	lists := collect(t, store)
	got := lists[0]
	if got.ID != 1 {
		t.Fatalf("ID=%d, want fresh id 1", got.ID)
	}
	if got.Created.UnixMilli() != 1400000000000 {
		t.Fatalf("Created=%d", got.Created.UnixMilli())
	}
	if len(got.Items) != 3 {
		t.Fatalf("items=%d, want 3", len(got.Items))
	}
	for i, it := range got.Items {
		if it.ID == "" {
			t.Fatalf("item %d missing id", i)
		}
	}
	if got.Items[0].ReminderEnabled || got.Items[0].ReminderAt != nil {
		t.Fatalf("item 0 reminder should be cleared: %+v", got.Items[0])
	}
	second := got.Items[1]
	if !second.ReminderEnabled || second.ReminderAt == nil || second.ReminderAt.Year() != 2030 {
		t.Fatalf("item 1 reminder unexpected: %+v", second)
	}
	third := got.Items[2]
	if third.Content != model.DefaultItemContent || third.ReminderEnabled {
		t.Fatalf("item 2 unexpected: %+v", third)
	}
}

func TestImportJSON_EmptyAndInvalid(t *testing.T) {
	store := newTestStore(t)
	n, err := ImportJSON(context.Background(), store, strings.NewReader("  "), nil)
	if err != nil || n != 0 {
		t.Fatalf("empty import n=%d err=%v", n, err)
	}
	if _, err := ImportJSON(context.Background(), store, strings.NewReader("{"), nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestImportJSON_AllPutsFailing(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "todo.db"), Options{})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	data := `[{"title": "A", "items": []}, {"title": "B", "items": []}]`
	n, err := ImportJSON(context.Background(), store, strings.NewReader(data), nil)
	if n != 0 || !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("n=%d err=%v, want ErrStoreUnavailable", n, err)
	}
}
