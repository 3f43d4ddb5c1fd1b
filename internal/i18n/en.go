package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Status lines
	"status.list_created":     "New list created.",
	"status.list_saved":       "List saved.",
	"status.list_renamed":     "List renamed to %q.",
	"status.list_removed":     "List %q removed.",
	"status.item_added":       "Added #%d %q.",
	"status.item_updated":     "Updated #%d.",
	"status.item_completed":   "Marked #%d as done.",
	"status.item_reopened":    "Marked #%d as not done.",
	"status.item_removed":     "Removed #%d %q.",
	"status.reminder_set":     "Reminder set for %s.",
	"status.reminder_off":     "Reminder cleared.",
	"status.exported":         "Exported %d list(s) to %s.",
	"status.imported":         "Imported %d list(s).",
	"status.config_written":   "Wrote %s.",
	"status.reminders_active": "%d reminder(s) pending.",

	// Alarm
	"alarm.remember": "Remember: %s",

	// Listing
	"list.empty":        "No lists yet. Create one with: todo new <title>",
	"list.no_items":     "This list is empty.",
	"list.header":       "%s (%d/%d done)",
	"list.modified":     "modified %s",
	"list.reminder":     "reminder %s",
	"list.column_id":    "ID",
	"list.column_title": "Title",
	"list.column_items": "Items",

	// Shell
	"shell.welcome": "listkeeper shell. Type \"help\" for commands, \"exit\" to quit.",

	"shell.help": `Commands:
  lists                         show all lists
  show <list>                   show one list
  new <title>                   create a list
  add <list> <content>          add an item
  done <list> <n>               toggle an item
  remind <list> <n> [when]      set a reminder (--off clears it)
  rm <list>                     delete a list
  pending                       show pending reminders
  sleep [duration]              wait, letting reminders fire
  exit                          leave the shell`,

	"shell.bye":     "Bye.",
	"shell.unknown": "Unknown command %q. Type \"help\".",

	// Errors
	"error.schedule":       "Could not schedule alarm!",
	"error.save":           "Could not save the list: %s",
	"error.load":           "Could not load lists: %s",
	"error.delete":         "Could not delete the list: %s",
	"error.list_not_found": "No list matches %q.",
	"error.list_ambiguous": "%q matches more than one list; use the id.",
	"error.bad_index":      "No item #%s in this list.",
	"error.bad_time":       "Cannot understand time %q.",
	"error.past_time":      "The reminder time %s has already passed.",
}
