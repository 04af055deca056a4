// Package facility keeps the registry of waste facilities (collection
// centres, bins, cities) keyed by facility id.
//
// The registry is an avl.Tree with an additive merge policy: registering an id
// that already exists adds the incoming quantity to the stored record and
// keeps the stored location. Update is the only way to replace a location.
package facility

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/katalvlaran/wastegrid/avl"
)

// Sentinel errors for registry operations.
var (
	// ErrEmptyID indicates a blank facility id.
	ErrEmptyID = errors.New("facility: id is empty")

	// ErrNegativeQuantity indicates a negative or non-finite quantity.
	ErrNegativeQuantity = errors.New("facility: quantity must be a finite value >= 0")

	// ErrNotFound indicates the id is not registered.
	ErrNotFound = errors.New("facility: not found")
)

// Record describes one facility.
type Record struct {
	ID       string  `json:"id"`
	Location string  `json:"location"`
	Quantity float64 `json:"quantity"` // kilograms of waste held
}

// Registry is an ordered facility index. It is not safe for concurrent use.
type Registry struct {
	tree *avl.Tree[string, Record]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tree: avl.New(avl.WithMerge[string](mergeQuantity))}
}

// mergeQuantity is the duplicate policy: quantities add up, location stays.
func mergeQuantity(stored, incoming Record) Record {
	stored.Quantity += incoming.Quantity

	return stored
}

// Register adds rec, or merges its quantity into an existing record with the
// same id. merged reports which of the two happened; on merge the caller must
// not assume rec.Location took effect.
func (r *Registry) Register(rec Record) (merged bool, err error) {
	if err = validate(rec.ID, rec.Quantity); err != nil {
		return false, err
	}

	return r.tree.Insert(rec.ID, rec), nil
}

// Remove deletes the record with the given id.
func (r *Registry) Remove(id string) error {
	if !r.tree.Delete(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return nil
}

// Lookup returns the record registered under id.
func (r *Registry) Lookup(id string) (Record, bool) {
	return r.tree.Get(id)
}

// Update replaces both location and quantity of an existing record.
func (r *Registry) Update(id, location string, quantity float64) error {
	if err := validate(id, quantity); err != nil {
		return err
	}
	if !r.tree.Update(id, Record{ID: id, Location: location, Quantity: quantity}) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return nil
}

// Records yields every record in ascending id order. The sequence is lazy and
// reflects the registry at iteration time.
func (r *Registry) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range r.tree.All() {
			if !yield(rec) {
				return
			}
		}
	}
}

// List returns a sorted copy of every record.
func (r *Registry) List() []Record {
	out := make([]Record, 0, r.tree.Len())
	for rec := range r.Records() {
		out = append(out, rec)
	}

	return out
}

// Len returns the number of registered facilities.
func (r *Registry) Len() int { return r.tree.Len() }

// TotalQuantity sums the quantity held by every facility.
func (r *Registry) TotalQuantity() float64 {
	var total float64
	for rec := range r.Records() {
		total += rec.Quantity
	}

	return total
}

// Check verifies the underlying index invariants.
func (r *Registry) Check() error { return r.tree.Check() }

// FromRecords rebuilds a registry from persisted records. Duplicate ids in the
// input are merged with the usual policy. Invalid records are skipped and
// reported together in the returned error; the registry is always usable.
func FromRecords(records []Record) (*Registry, error) {
	reg := NewRegistry()
	var errs []error
	for i, rec := range records {
		if _, err := reg.Register(rec); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}

	return reg, errors.Join(errs...)
}

func validate(id string, quantity float64) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return fmt.Errorf("%w: got %v", ErrNegativeQuantity, quantity)
	}

	return nil
}
