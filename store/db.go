package store

// DB is the durable key-value storage interface for the timer. Write
// failures are surfaced so callers can log and proceed: the in-memory state
// stays authoritative for the running process.
type DB interface {
	// GetTimerState returns the persisted timer record, or nil if no record
	// exists.
	GetTimerState() ([]byte, error)
	// SaveTimerState overwrites the persisted timer record.
	SaveTimerState(value []byte) error
	// DeleteTimerState removes the persisted timer record.
	DeleteTimerState() error
	// AppendSession adds a finished focus interval to the session history.
	AppendSession(key, value []byte) error
	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
