package constants

import "time"

// Request handling
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultPageSize       = 20
	MaxPageSize           = 100
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Redis key prefixes
const (
	RedisKeyTypingPrefix = "typing:"
)

// TypingTTL is the server-side expiry for a typing indicator. It is kept
// above the client's 2s debounce so a live typer refreshing the key never
// flickers, while a crashed client goes quiet within one TTL.
const TypingTTL = 4 * time.Second

// Asynq queue names
const (
	QueueDefault   = "default"
	QueueReminders = "reminders"
)
