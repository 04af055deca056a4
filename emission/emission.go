// Package emission estimates the carbon cost of moving waste along a route and
// keeps a per-node ledger of accumulated emissions.
//
// The estimate is distance × base factor × waste-type multiplier, in kg CO₂.
// The default base factor is 2.6 kg CO₂ per unit distance.
package emission

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Sentinel errors for emission accounting.
var (
	// ErrNegativeDistance indicates a negative or non-finite distance.
	ErrNegativeDistance = errors.New("emission: distance must be a finite value >= 0")

	// ErrBadFactor indicates a non-positive or non-finite base factor.
	ErrBadFactor = errors.New("emission: base factor must be positive")
)

// DefaultBaseFactor is the kg CO₂ emitted per unit distance for waste with
// multiplier 1.
const DefaultBaseFactor = 2.6

// WasteType classifies a load for emission purposes.
type WasteType string

// Known waste types. Anything else is accepted with multiplier 1.
const (
	Plastic    WasteType = "Plastic"
	Metal      WasteType = "Metal"
	Organic    WasteType = "Organic"
	Electronic WasteType = "Electronic"
	General    WasteType = "General"
)

var multipliers = map[WasteType]float64{
	Plastic:    1.2,
	Metal:      1.5,
	Organic:    0.8,
	Electronic: 1.7,
}

// Multiplier returns the emission multiplier of t, 1.0 for unknown types.
func (t WasteType) Multiplier() float64 {
	if m, ok := multipliers[t]; ok {
		return m
	}

	return 1.0
}

// ParseWasteType maps a case-insensitive name to a WasteType. Unknown names
// map to General with ok == false; they still estimate with multiplier 1.
func ParseWasteType(s string) (t WasteType, ok bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(General)) {
		return General, true
	}
	for k := range multipliers {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}

	return General, false
}

// Estimator computes emissions with a configurable base factor.
type Estimator struct {
	base float64
}

// NewEstimator returns an Estimator using base kg CO₂ per unit distance.
func NewEstimator(base float64) (*Estimator, error) {
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrBadFactor, base)
	}

	return &Estimator{base: base}, nil
}

// BaseFactor returns the configured base factor.
func (e *Estimator) BaseFactor() float64 { return e.base }

// Estimate returns distance × base × t.Multiplier().
func (e *Estimator) Estimate(distance float64, t WasteType) (float64, error) {
	if distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0, fmt.Errorf("%w: got %v", ErrNegativeDistance, distance)
	}

	return distance * e.base * t.Multiplier(), nil
}

// Estimate is Estimator.Estimate with DefaultBaseFactor.
func Estimate(distance float64, t WasteType) (float64, error) {
	return (&Estimator{base: DefaultBaseFactor}).Estimate(distance, t)
}

// Trip is one recorded transport of waste between two nodes.
type Trip struct {
	From      string
	To        string
	Distance  float64
	WasteType WasteType
	Emission  float64
}

// Entry is one line of the ledger ranking.
type Entry struct {
	Node     string
	Emission float64
}

// Ledger accumulates emissions per node. Each trip is credited in full to
// both of its endpoints. A Ledger is not safe for concurrent use.
type Ledger struct {
	trips  []Trip
	totals map[string]float64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{totals: make(map[string]float64)}
}

// Record adds a trip to the ledger.
func (l *Ledger) Record(t Trip) {
	l.trips = append(l.trips, t)
	l.totals[t.From] += t.Emission
	l.totals[t.To] += t.Emission
}

// Total returns the accumulated emission of node.
func (l *Ledger) Total(node string) float64 { return l.totals[node] }

// Trips returns a copy of every recorded trip in recording order.
func (l *Ledger) Trips() []Trip { return slices.Clone(l.trips) }

// Forget drops the node from the totals, for example after the node is
// removed from the graph. Recorded trips are kept.
func (l *Ledger) Forget(node string) { delete(l.totals, node) }

// Rename moves the total of oldName onto newName, adding to any total newName
// already has, and rewrites the endpoints of recorded trips.
func (l *Ledger) Rename(oldName, newName string) {
	if oldName == newName {
		return
	}
	if e, ok := l.totals[oldName]; ok {
		l.totals[newName] += e
		delete(l.totals, oldName)
	}
	for i := range l.trips {
		if l.trips[i].From == oldName {
			l.trips[i].From = newName
		}
		if l.trips[i].To == oldName {
			l.trips[i].To = newName
		}
	}
}

// Ranking returns every node with a positive total, highest emission first,
// ties broken by ascending node name.
func (l *Ledger) Ranking() []Entry {
	out := make([]Entry, 0, len(l.totals))
	for n, e := range l.totals {
		if e > 0 {
			out = append(out, Entry{Node: n, Emission: e})
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Emission, a.Emission); c != 0 {
			return c
		}

		return cmp.Compare(a.Node, b.Node)
	})

	return out
}
