package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Keys under which BadgerStore keeps the two snapshot halves.
var (
	keyFacilities = []byte("wastegrid/facilities")
	keyGraph      = []byte("wastegrid/graph")
)

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives badger's internal log lines. Nil disables them.
	Logger *slog.Logger
}

// BadgerStore keeps the snapshot as two JSON documents in an embedded
// BadgerDB. Both are written in one transaction.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens the database described by cfg.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ioErr("open badger", errors.New("path is required for a persistent database"))
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, ioErr("create database directory "+cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, ioErr("open badger", err)
	}

	return &BadgerStore{db: db}, nil
}

// Load reads both documents. Absent keys leave their half empty.
func (s *BadgerStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, ioErr("load", err)
	}
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		if err := getJSON(txn, keyFacilities, &snap.Facilities); err != nil {
			return err
		}

		return getJSON(txn, keyGraph, &snap.Graph)
	})
	if err != nil {
		return Snapshot{}, ioErr("load", err)
	}

	return snap, nil
}

// Save writes both documents in one transaction.
func (s *BadgerStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return ioErr("save", err)
	}
	facilities, err := json.Marshal(snap.Facilities)
	if err != nil {
		return fmt.Errorf("%w: encode facilities: %w", ErrMalformed, err)
	}
	graph, err := json.Marshal(snap.Graph)
	if err != nil {
		return fmt.Errorf("%w: encode graph: %w", ErrMalformed, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyFacilities, facilities); err != nil {
			return err
		}

		return txn.Set(keyGraph, graph)
	})
	if err != nil {
		return ioErr("save", err)
	}

	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return ioErr("close badger", err)
	}

	return nil
}

func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, dst); err != nil {
			return fmt.Errorf("%w: decode %s: %w", ErrMalformed, key, err)
		}

		return nil
	})
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
