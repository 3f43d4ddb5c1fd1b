package config

const (
	DefaultBaseDir       = "~/.listkeeper"
	DefaultDBFile        = "todo.db"
	DefaultBusyTimeoutMS = 5000

	DefaultReminderLeadMinutes = 60

	DefaultUIWidth = 80
)
