// Package store persists the facility registry and the routing graph.
//
// Three backends implement Store: FileStore (facilities.csv + graph.txt),
// SQLiteStore and BadgerStore. Every backend saves and loads a whole
// Snapshot; there are no partial writes. Any read or write failure is
// wrapped with ErrIO.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/facility"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

var (
	// ErrIO wraps every failure to read or write the backing store.
	ErrIO = errors.New("store: i/o failure")

	// ErrMalformed marks stored data that cannot be decoded, or data that the
	// backend cannot represent.
	ErrMalformed = errors.New("store: malformed data")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("store: unknown backend")
)

// Snapshot is everything a backend persists.
type Snapshot struct {
	Facilities []facility.Record `json:"facilities"`
	Graph      core.Snapshot     `json:"graph"`
}

// Store loads and saves snapshots. Load on an empty store returns an empty
// Snapshot and no error.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	Logger  *slog.Logger
}

// Open returns the backend named by opts.Backend rooted at opts.Dir.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(opts.Dir, "wastegrid.db"))
	case BackendBadger:
		return NewBadgerStore(BadgerConfig{Path: filepath.Join(opts.Dir, "badger"), SyncWrites: true, Logger: opts.Logger})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
