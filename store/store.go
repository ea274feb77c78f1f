// Package store connects to the data store and manages the persisted timer
// state and session history
package store

import (
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/grove/internal/apperr"
)

var pathToDB string

var errGroveRunning = &apperr.Error{
	Message: "is Grove already running? Only one instance can be active at a time",
}

const (
	timerBucket    = "timer"
	sessionsBucket = "sessions"
)

// timerKey is the fixed key the current timer state lives under. The engine
// keeps exactly one record and overwrites it on every committed transition.
var timerKey = []byte("current")

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) GetTimerState() ([]byte, error) {
	var value []byte

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(timerBucket)).Get(timerKey)
		if b != nil {
			value = make([]byte, len(b))
			copy(value, b)
		}

		return nil
	})

	return value, err
}

func (c *Client) SaveTimerState(value []byte) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(timerBucket)).Put(timerKey, value)
	})
}

func (c *Client) DeleteTimerState() error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(timerBucket)).Delete(timerKey)
	})
}

func (c *Client) AppendSession(key, value []byte) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Put(key, value)
	})
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a held file lock times out, which means another instance owns
		// the store
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errGroveRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(timerBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(sessionsBucket))

		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
