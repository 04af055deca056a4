// File: iter.go
// Role: In-order enumeration and structural self-check.
// Determinism:
//   - All/Keys yield keys in strictly ascending cmp.Compare order.

package avl

import (
	"cmp"
	"fmt"
	"iter"
)

// All returns a lazy in-order sequence of key/value pairs.
//
// The sequence is restartable: each range over it starts a fresh walk of the
// tree as it is at that moment, so two iterations separated by a mutation
// observe the mutation. Breaking out of the loop stops the walk immediately.
//
// Complexity: O(n) for a full walk, O(height) extra space.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		stack := make([]*node[K, V], 0, height(t.root))
		n := t.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.key, n.value) {
				return
			}
			n = n.right
		}
	}
}

// Keys returns a lazy in-order sequence of keys.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Check walks the whole tree and verifies ordering, cached heights and the
// balance invariant on every node. It returns the first violation found,
// wrapped around one of ErrOrderViolation, ErrHeightMismatch or ErrUnbalanced.
//
// Complexity: O(n).
func (t *Tree[K, V]) Check() error {
	count := 0
	if _, err := check(t.root, nil, nil, &count); err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("avl: size %d does not match %d reachable nodes", t.size, count)
	}

	return nil
}

func check[K cmp.Ordered, V any](n *node[K, V], lo, hi *K, count *int) (int, error) {
	if n == nil {
		return 0, nil
	}
	*count++
	if lo != nil && cmp.Compare(n.key, *lo) <= 0 {
		return 0, fmt.Errorf("%w: %v not greater than %v", ErrOrderViolation, n.key, *lo)
	}
	if hi != nil && cmp.Compare(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("%w: %v not less than %v", ErrOrderViolation, n.key, *hi)
	}

	lh, err := check(n.left, lo, &n.key, count)
	if err != nil {
		return 0, err
	}
	rh, err := check(n.right, &n.key, hi, count)
	if err != nil {
		return 0, err
	}

	if want := 1 + max(lh, rh); n.height != want {
		return 0, fmt.Errorf("%w: key %v cached %d, actual %d", ErrHeightMismatch, n.key, n.height, want)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, fmt.Errorf("%w: key %v balance %d", ErrUnbalanced, n.key, bf)
	}

	return n.height, nil
}
