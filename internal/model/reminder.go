package model

import "github.com/google/uuid"

// ReminderState is the reconciliation state of one item's reminder.
type ReminderState int

const (
	ReminderUnset ReminderState = iota
	ReminderScheduling
	ReminderActive
	ReminderCancelling
)

func (s ReminderState) String() string {
	switch s {
	case ReminderUnset:
		return "unset"
	case ReminderScheduling:
		return "scheduling"
	case ReminderActive:
		return "active"
	case ReminderCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

// ReminderStateOf derives the settled state from the item's fields.
// The in-flight states are only known to the scheduler.
func ReminderStateOf(item Item) ReminderState {
	if item.ReminderHandle != "" {
		return ReminderActive
	}
	return ReminderUnset
}

// ClearReminder puts the item back into the "no reminder" state.
func (it *Item) ClearReminder() {
	it.ReminderEnabled = false
	it.ReminderAt = nil
	it.ReminderHandle = ""
}

// EnsureID assigns a stable ID to items created before IDs existed.
func (it *Item) EnsureID() {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
}
