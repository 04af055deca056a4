package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/facility"
)

// File names used by FileStore.
const (
	FacilitiesFile = "facilities.csv"
	GraphFile      = "graph.txt"
)

// FileStore keeps the registry in facilities.csv and the graph in graph.txt
// inside one directory.
//
// facilities.csv holds one "id,location,quantity" record per line in
// ascending id order. graph.txt holds the node count N, then N node names
// one per line, then one "from to weight edge" line per directed arc, where
// from and to are 0-based positions in the name list and edge is the id the
// arc shares with its reverse. The edge column may be omitted on input.
//
// Both files are replaced atomically: content goes to a temp file in the same
// directory which is then renamed over the target.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, ioErr("create data directory", err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

// Load reads both files. A missing file yields the empty value for its half
// of the snapshot.
func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, ioErr("load", err)
	}
	var snap Snapshot
	var err error
	if snap.Facilities, err = s.loadFacilities(); err != nil {
		return Snapshot{}, err
	}
	if snap.Graph, err = s.loadGraph(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Save overwrites both files.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return ioErr("save", err)
	}
	if err := checkNodeNames(snap.Graph.Nodes); err != nil {
		return err
	}
	if err := s.writeAtomic(FacilitiesFile, func(w io.Writer) error { return encodeFacilities(w, snap.Facilities) }); err != nil {
		return err
	}

	return s.writeAtomic(GraphFile, func(w io.Writer) error { return encodeGraph(w, snap.Graph) })
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadFacilities() ([]facility.Record, error) {
	f, err := os.Open(filepath.Join(s.dir, FacilitiesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioErr("open "+FacilitiesFile, err)
	}
	defer func() { _ = f.Close() }()

	return decodeFacilities(f)
}

func (s *FileStore) loadGraph() (core.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.dir, GraphFile))
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, nil
	}
	if err != nil {
		return core.Snapshot{}, ioErr("open "+GraphFile, err)
	}
	defer func() { _ = f.Close() }()

	return decodeGraph(f)
}

func (s *FileStore) writeAtomic(name string, fill func(io.Writer) error) (retErr error) {
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return ioErr("create temp file for "+name, err)
	}
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := fill(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return ioErr("write "+name, err)
	}
	if err := tmp.Sync(); err != nil {
		return ioErr("sync "+name, err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("close "+name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return ioErr("replace "+name, err)
	}

	return nil
}

func encodeFacilities(w io.Writer, recs []facility.Record) error {
	sorted := slices.SortedFunc(slices.Values(recs), func(a, b facility.Record) int {
		return strings.Compare(a.ID, b.ID)
	})
	cw := csv.NewWriter(w)
	for _, r := range sorted {
		row := []string{r.ID, r.Location, strconv.FormatFloat(r.Quantity, 'g', -1, 64)}
		if err := cw.Write(row); err != nil {
			return ioErr("write "+FacilitiesFile, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return ioErr("write "+FacilitiesFile, err)
	}

	return nil
}

func decodeFacilities(r io.Reader) ([]facility.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, ioErr("read "+FacilitiesFile, fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	recs := make([]facility.Record, 0, len(rows))
	for i, row := range rows {
		q, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, ioErr("read "+FacilitiesFile, fmt.Errorf("%w: record %d: quantity %q", ErrMalformed, i+1, row[2]))
		}
		recs = append(recs, facility.Record{ID: row[0], Location: row[1], Quantity: q})
	}

	return recs, nil
}

// checkNodeNames rejects names that would break the one-name-per-line layout.
func checkNodeNames(names []string) error {
	for _, name := range names {
		if strings.ContainsAny(name, "\r\n") {
			return fmt.Errorf("%w: node name %q contains a line break", ErrMalformed, name)
		}
	}

	return nil
}

func encodeGraph(w io.Writer, g core.Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(g.Nodes))
	for _, name := range g.Nodes {
		fmt.Fprintln(bw, name)
	}
	for _, a := range g.Arcs {
		fmt.Fprintf(bw, "%d %d %s", a.From, a.To, strconv.FormatFloat(a.Weight, 'g', -1, 64))
		if a.Edge != "" {
			fmt.Fprintf(bw, " %s", a.Edge)
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return ioErr("write "+GraphFile, err)
	}

	return nil
}

func decodeGraph(r io.Reader) (core.Snapshot, error) {
	sc := bufio.NewScanner(r)
	line := 0
	malformed := func(format string, args ...any) error {
		return ioErr("read "+GraphFile, fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...)))
	}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return core.Snapshot{}, ioErr("read "+GraphFile, err)
		}

		return core.Snapshot{}, nil
	}
	line++
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return core.Snapshot{}, malformed("node count %q", sc.Text())
	}

	snap := core.Snapshot{Nodes: make([]string, 0, min(n, 1<<12))}
	for len(snap.Nodes) < n {
		if !sc.Scan() {
			return core.Snapshot{}, malformed("want %d node names, got %d", n, len(snap.Nodes))
		}
		line++
		snap.Nodes = append(snap.Nodes, sc.Text())
	}

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 && len(fields) != 4 {
			return core.Snapshot{}, malformed("want \"from to weight [edge]\", got %q", sc.Text())
		}
		from, err1 := strconv.Atoi(fields[0])
		to, err2 := strconv.Atoi(fields[1])
		w, err3 := strconv.ParseFloat(fields[2], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			return core.Snapshot{}, malformed("%v", err)
		}
		a := core.ArcRecord{From: from, To: to, Weight: w}
		if len(fields) == 4 {
			a.Edge = fields[3]
		}
		snap.Arcs = append(snap.Arcs, a)
	}
	if err := sc.Err(); err != nil {
		return core.Snapshot{}, ioErr("read "+GraphFile, err)
	}

	return snap, nil
}
