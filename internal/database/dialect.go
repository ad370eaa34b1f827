package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertReviewStateQuery returns the atomic insert-or-update statement
	// for the review_states table, keyed on (user_id, question_id).
	// Placeholder order: user_id, question_id, strength, repetition_count,
	// interval_days, next_review_at, last_outcome, last_confidence,
	// last_time_spent_ms, updated_at.
	UpsertReviewStateQuery() string

	// BoolValue returns the SQL representation of a boolean value
	BoolValue(b bool) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders not inside quotes
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// upsertReviewStateOnConflict is shared by SQLite and PostgreSQL, which both
// use the ON CONFLICT ... DO UPDATE syntax with the excluded pseudo-table.
const upsertReviewStateOnConflict = `
	INSERT INTO review_states (user_id, question_id, strength, repetition_count,
	                           interval_days, next_review_at, last_outcome,
	                           last_confidence, last_time_spent_ms, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, question_id) DO UPDATE SET
		strength = excluded.strength,
		repetition_count = excluded.repetition_count,
		interval_days = excluded.interval_days,
		next_review_at = excluded.next_review_at,
		last_outcome = excluded.last_outcome,
		last_confidence = excluded.last_confidence,
		last_time_spent_ms = excluded.last_time_spent_ms,
		updated_at = excluded.updated_at
`
