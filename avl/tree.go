// File: tree.go
// Role: AVL mutations (Insert/Delete/Update), point queries and rebalancing.
// Determinism:
//   - Shape depends only on the sequence of operations, never on randomness.
// Invariants (after every exported mutation):
//   - left keys < node key < right keys (cmp.Compare order).
//   - height(n) == 1 + max(height(left), height(right)).
//   - |height(left) - height(right)| <= 1.

package avl

import "cmp"

// Len returns the number of keys stored.
// Complexity: O(1).
func (t *Tree[K, V]) Len() int { return t.size }

// Height returns the height of the tree (0 for an empty tree).
// Complexity: O(1).
func (t *Tree[K, V]) Height() int { return height(t.root) }

// Insert stores value under key.
//
// If key is already present the tree shape is left untouched and the stored
// value becomes merge(stored, value) when a MergeFunc is configured; without
// one the stored value wins. In both cases Insert reports merged == true.
// Otherwise a new node is linked in, every ancestor is rebalanced, and Insert
// reports merged == false.
//
// Complexity: O(log n).
func (t *Tree[K, V]) Insert(key K, value V) (merged bool) {
	t.root = t.insert(t.root, key, value, &merged)
	if !merged {
		t.size++
	}

	return merged
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V, merged *bool) *node[K, V] {
	if n == nil {
		return &node[K, V]{key: key, value: value, height: 1}
	}

	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		n.left = t.insert(n.left, key, value, merged)
	case c > 0:
		n.right = t.insert(n.right, key, value, merged)
	default:
		*merged = true
		if t.merge != nil {
			n.value = t.merge(n.value, value)
		}
		// no structural change below this point, nothing to rebalance
		return n
	}

	return rebalance(n)
}

// Delete removes key and reports whether it was present.
//
// A node with at most one child is spliced out. A node with two children takes
// over the key/value of its in-order successor (minimum of the right subtree)
// and the successor's original node is deleted recursively. Every ancestor on
// the way back to the root is rebalanced.
//
// Complexity: O(log n).
func (t *Tree[K, V]) Delete(key K) bool {
	var removed bool
	t.root = t.delete(t.root, key, &removed)
	if removed {
		t.size--
	}

	return removed
}

func (t *Tree[K, V]) delete(n *node[K, V], key K, removed *bool) *node[K, V] {
	if n == nil {
		return nil
	}

	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		n.left = t.delete(n.left, key, removed)
	case c > 0:
		n.right = t.delete(n.right, key, removed)
	default:
		*removed = true
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		succ := minNode(n.right)
		n.key, n.value = succ.key, succ.value
		n.right = t.delete(n.right, succ.key, removed)
	}

	return rebalance(n)
}

// Get returns the value stored under key.
// Complexity: O(log n).
func (t *Tree[K, V]) Get(key K) (V, bool) {
	if n := t.find(key); n != nil {
		return n.value, true
	}
	var zero V

	return zero, false
}

// Contains reports whether key is present.
// Complexity: O(log n).
func (t *Tree[K, V]) Contains(key K) bool { return t.find(key) != nil }

// Update replaces the value stored under key unconditionally (no merge).
// It reports false, and changes nothing, when key is absent.
// Complexity: O(log n).
func (t *Tree[K, V]) Update(key K, value V) bool {
	n := t.find(key)
	if n == nil {
		return false
	}
	n.value = value

	return true
}

// Min returns the smallest key and its value.
// Complexity: O(log n).
func (t *Tree[K, V]) Min() (K, V, bool) {
	if t.root == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	n := minNode(t.root)

	return n.key, n.value, true
}

// Max returns the largest key and its value.
// Complexity: O(log n).
func (t *Tree[K, V]) Max() (K, V, bool) {
	n := t.root
	if n == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	for n.right != nil {
		n = n.right
	}

	return n.key, n.value, true
}

// Clear drops every node.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

func (t *Tree[K, V]) find(key K) *node[K, V] {
	n := t.root
	for n != nil {
		switch c := cmp.Compare(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}

	return nil
}

//–– Balancing ––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

func height[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}

	return n.height
}

func balanceFactor[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}

	return height(n.left) - height(n.right)
}

func fixHeight[K cmp.Ordered, V any](n *node[K, V]) {
	n.height = 1 + max(height(n.left), height(n.right))
}

func minNode[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	for n.left != nil {
		n = n.left
	}

	return n
}

//	    y              x
//	   / \            / \
//	  x   C   ==>    A   y
//	 / \                / \
//	A   B              B   C
func rotateRight[K cmp.Ordered, V any](y *node[K, V]) *node[K, V] {
	x := y.left
	y.left = x.right
	x.right = y
	fixHeight(y)
	fixHeight(x)

	return x
}

//	  x                  y
//	 / \                / \
//	A   y     ==>      x   C
//	   / \            / \
//	  B   C          A   B
func rotateLeft[K cmp.Ordered, V any](x *node[K, V]) *node[K, V] {
	y := x.right
	x.right = y.left
	y.left = x
	fixHeight(x)
	fixHeight(y)

	return y
}

// rebalance recomputes n's height and resolves the four imbalance cases
// (LL, LR, RR, RL). It returns the new root of the subtree.
func rebalance[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	fixHeight(n)

	switch bf := balanceFactor(n); {
	case bf > 1:
		if balanceFactor(n.left) < 0 { // LR
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n) // LL
	case bf < -1:
		if balanceFactor(n.right) > 0 { // RL
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n) // RR
	}

	return n
}
