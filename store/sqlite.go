package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/facility"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS facilities (
		id       TEXT PRIMARY KEY,
		location TEXT NOT NULL,
		quantity REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS nodes (
		pos  INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS arcs (
		seq    INTEGER PRIMARY KEY,
		src    INTEGER NOT NULL,
		dst    INTEGER NOT NULL,
		weight REAL NOT NULL,
		edge   TEXT NOT NULL DEFAULT ''
	)`,
}

// SQLiteStore keeps the snapshot in three tables of a single SQLite file.
// Save replaces the whole content in one transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. Pass ":memory:" for a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, ioErr("create dirs", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ioErr("open sqlite", err)
	}
	// An in-memory database lives inside a single connection.
	db.SetMaxOpenConns(1)
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, ioErr("create schema", err)
		}
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

// Load reads all three tables.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT id, location, quantity FROM facilities ORDER BY id`)
	if err != nil {
		return Snapshot{}, ioErr("select facilities", err)
	}
	for rows.Next() {
		var r facility.Record
		if err := rows.Scan(&r.ID, &r.Location, &r.Quantity); err != nil {
			_ = rows.Close()
			return Snapshot{}, ioErr("scan facility", err)
		}
		snap.Facilities = append(snap.Facilities, r)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, ioErr("select facilities", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT pos, name FROM nodes ORDER BY pos`)
	if err != nil {
		return Snapshot{}, ioErr("select nodes", err)
	}
	for rows.Next() {
		var pos int
		var name string
		if err := rows.Scan(&pos, &name); err != nil {
			_ = rows.Close()
			return Snapshot{}, ioErr("scan node", err)
		}
		if pos != len(snap.Graph.Nodes) {
			_ = rows.Close()
			return Snapshot{}, ioErr("select nodes", fmt.Errorf("%w: node position %d, want %d", ErrMalformed, pos, len(snap.Graph.Nodes)))
		}
		snap.Graph.Nodes = append(snap.Graph.Nodes, name)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, ioErr("select nodes", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT src, dst, weight, edge FROM arcs ORDER BY seq`)
	if err != nil {
		return Snapshot{}, ioErr("select arcs", err)
	}
	for rows.Next() {
		var a core.ArcRecord
		if err := rows.Scan(&a.From, &a.To, &a.Weight, &a.Edge); err != nil {
			_ = rows.Close()
			return Snapshot{}, ioErr("scan arc", err)
		}
		snap.Graph.Arcs = append(snap.Graph.Arcs, a)
	}
	if err := closeRows(rows); err != nil {
		return Snapshot{}, ioErr("select arcs", err)
	}

	return snap, nil
}

// Save replaces the stored snapshot.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioErr("begin", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"facilities", "nodes", "arcs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return ioErr("clear "+table, err)
		}
	}
	for _, r := range snap.Facilities {
		if _, err := tx.ExecContext(ctx, `INSERT INTO facilities(id, location, quantity) VALUES(?, ?, ?)`,
			r.ID, r.Location, r.Quantity); err != nil {
			return ioErr("insert facility "+r.ID, err)
		}
	}
	for i, name := range snap.Graph.Nodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(pos, name) VALUES(?, ?)`, i, name); err != nil {
			return ioErr("insert node "+name, err)
		}
	}
	for i, a := range snap.Graph.Arcs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO arcs(seq, src, dst, weight, edge) VALUES(?, ?, ?, ?, ?)`,
			i, a.From, a.To, a.Weight, a.Edge); err != nil {
			return ioErr(fmt.Sprintf("insert arc %d", i), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return ioErr("commit", err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return ioErr("close sqlite", err)
	}

	return nil
}

func closeRows(rows *sql.Rows) error {
	return errors.Join(rows.Err(), rows.Close())
}
