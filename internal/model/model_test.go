package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewListDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)
	l := NewList("  ", now)
	if l.Title != DefaultListTitle {
		t.Fatalf("Title=%q, want %q", l.Title, DefaultListTitle)
	}
	if l.ID != 0 {
		t.Fatalf("ID=%d, want 0 before first save", l.ID)
	}
	if !l.Created.Equal(l.Modified) {
		t.Fatalf("Created=%v Modified=%v, want equal", l.Created, l.Modified)
	}
	if l.Created.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("Created not truncated to ms: %v", l.Created)
	}
	if len(l.Items) != 0 {
		t.Fatalf("Items=%d, want 0", len(l.Items))
	}
}

func TestNewItemDefaults(t *testing.T) {
	it := NewItem("")
	if it.Content != DefaultItemContent {
		t.Fatalf("Content=%q, want %q", it.Content, DefaultItemContent)
	}
	if it.ID == "" {
		t.Fatal("expected generated item id")
	}
	if it.Completed || it.ReminderEnabled || it.ReminderAt != nil || it.ReminderHandle != "" {
		t.Fatalf("unexpected defaults: %+v", it)
	}
	if other := NewItem("x"); other.ID == it.ID {
		t.Fatalf("item ids collide: %q", it.ID)
	}
}

func TestAddItemAndLookup(t *testing.T) {
	l := NewList("Groceries", time.Now())
	milk := NewItem("Buy milk")
	eggs := NewItem("Buy eggs")

	if idx := AddItem(l, milk); idx != 0 {
		t.Fatalf("index=%d, want 0", idx)
	}
	if idx := AddItem(l, eggs); idx != 1 {
		t.Fatalf("index=%d, want 1", idx)
	}

	got, err := l.Item(1)
	if err != nil {
		t.Fatalf("Item(1): %v", err)
	}
	got.Completed = true
	if !l.Items[1].Completed {
		t.Fatal("Item should return a pointer into the list")
	}

	if _, err := l.Item(2); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("Item(2) err=%v, want ErrItemIndex", err)
	}
	if _, err := l.Item(-1); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("Item(-1) err=%v, want ErrItemIndex", err)
	}

	_, idx, ok := l.ItemByID(eggs.ID)
	if !ok || idx != 1 {
		t.Fatalf("ItemByID idx=%d ok=%v, want 1 true", idx, ok)
	}

	removed, err := l.RemoveItem(0)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if removed.ID != milk.ID {
		t.Fatalf("removed %q, want %q", removed.ID, milk.ID)
	}
	_, idx, ok = l.ItemByID(eggs.ID)
	if !ok || idx != 0 {
		t.Fatalf("after remove ItemByID idx=%d ok=%v, want 0 true", idx, ok)
	}
}

func TestAddItemAssignsMissingID(t *testing.T) {
	l := NewList("x", time.Now())
	AddItem(l, Item{Content: "no id"})
	if l.Items[0].ID == "" {
		t.Fatal("expected AddItem to assign an id")
	}
}

func TestReminderStateOf(t *testing.T) {
	cases := []struct {
		name string
		item Item
		want ReminderState
	}{
		{"no handle", Item{}, ReminderUnset},
		{"enabled without handle", Item{ReminderEnabled: true}, ReminderUnset},
		{"handle held", Item{ReminderEnabled: true, ReminderHandle: "h1"}, ReminderActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReminderStateOf(tc.item); got != tc.want {
				t.Fatalf("state=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestClearReminder(t *testing.T) {
	at := time.Now()
	it := Item{ReminderEnabled: true, ReminderAt: &at, ReminderHandle: "h1"}
	it.ClearReminder()
	if it.ReminderEnabled || it.ReminderAt != nil || it.ReminderHandle != "" {
		t.Fatalf("reminder not cleared: %+v", it)
	}
}
