// Package avl implements a generic, self-balancing ordered index (AVL tree).
//
// A Tree maps keys of any cmp.Ordered type to values of any type. Every
// mutation keeps the classic AVL invariant: for every node the heights of the
// left and right subtrees differ by at most one, so Get/Insert/Delete/Update
// run in O(log n).
//
// Duplicate keys are never stored twice. Inserting an existing key applies
// the tree's MergeFunc to the stored value (see WithMerge); the default policy
// keeps the stored value untouched.
//
// Iteration:
//
//	for k, v := range t.All() { ... }
//
// All returns a lazy, restartable in-order sequence that walks the live tree
// at iteration time. Mutating the tree while a single iteration is in flight
// is not supported.
//
// Concurrency: a Tree is not safe for concurrent mutation. Callers that share
// a Tree across goroutines must serialise access themselves.
//
// Errors (returned by Check only):
//
//	ErrOrderViolation - a left/right subtree key is on the wrong side of its parent.
//	ErrHeightMismatch - a cached height does not match the recomputed one.
//	ErrUnbalanced     - a node's balance factor is outside [-1, 1].
package avl

import (
	"cmp"
	"errors"
)

// Sentinel errors reported by Tree.Check.
var (
	// ErrOrderViolation indicates that binary-search ordering is broken.
	ErrOrderViolation = errors.New("avl: key order violated")

	// ErrHeightMismatch indicates that a node's cached height is stale.
	ErrHeightMismatch = errors.New("avl: cached height mismatch")

	// ErrUnbalanced indicates that a node's balance factor is outside [-1, 1].
	ErrUnbalanced = errors.New("avl: balance factor out of range")
)

// MergeFunc combines the value already stored under a key with an incoming
// value for the same key and returns the value to keep.
type MergeFunc[V any] func(stored, incoming V) V

// Option configures a Tree at construction time.
type Option[K cmp.Ordered, V any] func(t *Tree[K, V])

// WithMerge installs the duplicate-key policy used by Insert.
//
//	t := avl.New(avl.WithMerge[string](func(old, in int) int { return old + in }))
func WithMerge[K cmp.Ordered, V any](fn MergeFunc[V]) Option[K, V] {
	return func(t *Tree[K, V]) { t.merge = fn }
}

// node owns one key/value pair and its two children exclusively.
type node[K cmp.Ordered, V any] struct {
	key    K
	value  V
	height int // height of the subtree rooted here; a leaf has height 1
	left   *node[K, V]
	right  *node[K, V]
}

// Tree is a generic AVL tree keyed by K.
// The zero value is not usable; construct with New.
type Tree[K cmp.Ordered, V any] struct {
	root  *node[K, V]
	size  int
	merge MergeFunc[V] // nil keeps the stored value on duplicate insert
}

// New returns an empty Tree configured by opts.
// Complexity: O(len(opts)).
func New[K cmp.Ordered, V any](opts ...Option[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{}
	for _, opt := range opts {
		opt(t)
	}

	return t
}
