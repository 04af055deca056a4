package network

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/wastegrid/bfs"
	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/dijkstra"
	"github.com/katalvlaran/wastegrid/emission"
	"github.com/katalvlaran/wastegrid/facility"
	"github.com/katalvlaran/wastegrid/store"
)

// Error kinds. Every error returned by Service wraps exactly one kind and
// the package sentinel it was derived from, so both
// errors.Is(err, ErrNotFound) and errors.Is(err, core.ErrNodeNotFound) hold.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIOFailure       = errors.New("i/o failure")
)

var (
	notFound = []error{
		facility.ErrNotFound,
		core.ErrNodeNotFound, core.ErrEdgeNotFound, core.ErrStaleHandle,
		dijkstra.ErrVertexNotFound, dijkstra.ErrNoPath,
		bfs.ErrStartVertexNotFound,
	}
	invalidArgument = []error{
		facility.ErrEmptyID, facility.ErrNegativeQuantity,
		core.ErrLoopNotAllowed, core.ErrNegativeWeight, core.ErrBadWeight,
		core.ErrDuplicateNode, core.ErrEmptyNodeName,
		dijkstra.ErrEmptySource, dijkstra.ErrBadMaxDistance, dijkstra.ErrBadInfThreshold,
		dijkstra.ErrUnknownStrategy,
		bfs.ErrOptionViolation,
		emission.ErrNegativeDistance, emission.ErrBadFactor,
	}
)

// classify wraps err with its kind. Errors of no known kind, and errors that
// already carry a kind, are returned unchanged.
func classify(err error) error {
	if err == nil || Kind(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, store.ErrIO):
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	case isAny(err, notFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case isAny(err, invalidArgument):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return err
}

// Kind returns ErrNotFound, ErrInvalidArgument or ErrIOFailure when err
// carries one of them, and nil otherwise.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrInvalidArgument, ErrIOFailure} {
		if errors.Is(err, k) {
			return k
		}
	}

	return nil
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}

	return false
}
