package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultListTitle is used when a list is created without a title.
	DefaultListTitle = "Untitled List"
	// DefaultItemContent is used when an item is created without content.
	DefaultItemContent = "Untitled To Do"
)

// ErrItemIndex reports an item index outside the list.
var ErrItemIndex = errors.New("item index out of range")

// Item is one to-do entry. Items live inside their List; they are ordered
// by position and carry a stable ID that survives reordering.
type Item struct {
	ID              string     `json:"id"`
	Content         string     `json:"content"`
	Notes           string     `json:"notes"`
	Completed       bool       `json:"completed"`
	ReminderEnabled bool       `json:"reminder_enabled"`
	ReminderAt      *time.Time `json:"reminder_at,omitempty"`
	ReminderHandle  string     `json:"reminder_handle,omitempty"`
}

// List is a named, ordered collection of items and the unit of persistence.
// ID is zero until the store assigns one on first save.
type List struct {
	ID       int64     `json:"id,omitempty"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Items    []Item    `json:"items"`
}

// NewList builds an unsaved list. Timestamps are truncated to the
// millisecond precision the store keeps.
func NewList(title string, now time.Time) *List {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultListTitle
	}
	ts := Millis(now)
	return &List{
		Title:    title,
		Created:  ts,
		Modified: ts,
		Items:    []Item{},
	}
}

// NewItem builds an item with a fresh ID.
func NewItem(content string) Item {
	content = strings.TrimSpace(content)
	if content == "" {
		content = DefaultItemContent
	}
	return Item{
		ID:      uuid.NewString(),
		Content: content,
	}
}

// AddItem appends item to list and returns its index.
func AddItem(list *List, item Item) int {
	item.EnsureID()
	list.Items = append(list.Items, item)
	return len(list.Items) - 1
}

// Item returns a pointer to the item at index so callers can mutate it in place.
func (l *List) Item(index int) (*Item, error) {
	if index < 0 || index >= len(l.Items) {
		return nil, fmt.Errorf("%w: %d (list has %d items)", ErrItemIndex, index, len(l.Items))
	}
	return &l.Items[index], nil
}

// ItemByID looks up an item by its stable ID.
func (l *List) ItemByID(id string) (*Item, int, bool) {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i], i, true
		}
	}
	return nil, -1, false
}

// RemoveItem deletes the item at index and returns it. The caller is
// responsible for cancelling any reminder the item still holds.
func (l *List) RemoveItem(index int) (Item, error) {
	if index < 0 || index >= len(l.Items) {
		return Item{}, fmt.Errorf("%w: %d (list has %d items)", ErrItemIndex, index, len(l.Items))
	}
	removed := l.Items[index]
	l.Items = append(l.Items[:index], l.Items[index+1:]...)
	return removed, nil
}

// CompletedCount returns how many items are done.
func (l List) CompletedCount() int {
	n := 0
	for _, it := range l.Items {
		if it.Completed {
			n++
		}
	}
	return n
}

// Millis truncates t to millisecond precision and drops the monotonic reading.
func Millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}
