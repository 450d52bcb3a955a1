package tree

import "github.com/uselessgoddess/dunes/internal/opt"

// View is a tree's accessor over one embedded Node field of a record
// slab, closed over a key ordering (spec §4.4.1).
//
// Both balancing strategies (pkg/tree/sbt, pkg/tree/art) are written
// purely in terms of a View, so swapping which Node field a View reads
// — or swapping the key comparator — is all it takes to stand up the
// source-tree or the target-tree over the same underlying records.
type View[T comparable] struct {
	// Get returns the node embedded at index i.
	Get func(i T) Node[T]
	// Set overwrites the node embedded at index i.
	Set func(i T, n Node[T])
	// Compare orders two indices by this tree's key. It must return a
	// negative number if a sorts before b, zero if equal, and a
	// positive number otherwise.
	Compare func(a, b T) int
}

// Left returns i's left child, if any.
func (v View[T]) Left(i T) opt.Option[T] { return v.Get(i).Left }

// Right returns i's right child, if any.
func (v View[T]) Right(i T) opt.Option[T] { return v.Get(i).Right }

// SetLeft rewrites i's left child.
func (v View[T]) SetLeft(i T, left opt.Option[T]) {
	n := v.Get(i)
	n.Left = left
	v.Set(i, n)
}

// SetRight rewrites i's right child.
func (v View[T]) SetRight(i T, right opt.Option[T]) {
	n := v.Get(i)
	n.Right = right
	v.Set(i, n)
}

// IsLeftOf reports whether a belongs to the left of b under this
// tree's key.
func (v View[T]) IsLeftOf(a, b T) bool { return v.Compare(a, b) < 0 }

// IsRightOf reports whether a belongs to the right of b under this
// tree's key.
func (v View[T]) IsRightOf(a, b T) bool { return a != b && !v.IsLeftOf(a, b) }

// Clear resets i's node to the zero node (no children, no metadata).
// Call this after detaching i from the tree and before either
// reattaching or freeing it (spec §4.4.4).
func (v View[T]) Clear(i T) { v.Set(i, Node[T]{}) }

// Leftmost descends i's left spine and returns the minimum of the
// subtree rooted at i.
func (v View[T]) Leftmost(i T) T {
	for {
		left, ok := v.Left(i).Get()
		if !ok {
			return i
		}
		i = left
	}
}

// Rightmost descends i's right spine and returns the maximum of the
// subtree rooted at i.
func (v View[T]) Rightmost(i T) T {
	for {
		right, ok := v.Right(i).Get()
		if !ok {
			return i
		}
		i = right
	}
}

// Successor returns the leftmost node of i's right subtree, which is
// i's in-order successor when i has a right child. Nodes have no parent
// links, so when i has no right child Successor returns None, even if
// an ancestor of i follows it in order.
func (v View[T]) Successor(i T) opt.Option[T] {
	if right, ok := v.Right(i).Get(); ok {
		return opt.Some(v.Leftmost(right))
	}

	return opt.None[T]()
}

// Predecessor returns the rightmost node of i's left subtree, which is
// i's in-order predecessor when i has a left child. When i has no left
// child Predecessor returns None, even if an ancestor of i precedes it
// in order.
func (v View[T]) Predecessor(i T) opt.Option[T] {
	if left, ok := v.Left(i).Get(); ok {
		return opt.Some(v.Rightmost(left))
	}

	return opt.None[T]()
}

// Contains reports whether idx is reachable from root by this tree's
// ordering.
func (v View[T]) Contains(root, idx T) bool {
	current := root

	for {
		if v.IsLeftOf(idx, current) {
			left, ok := v.Left(current).Get()
			if !ok {
				return false
			}
			current = left
		} else if v.IsRightOf(idx, current) {
			right, ok := v.Right(current).Get()
			if !ok {
				return false
			}
			current = right
		} else {
			return true
		}
	}
}

// Strategy is the public operation surface every balancing strategy
// must provide (spec §9 "Strategy polymorphism"): insert and remove.
// Ordered enumeration is not part of it; callers walk an ordered tree's
// nodes through its View.
type Strategy[T comparable] interface {
	// Insert adds idx under root, returning the new root.
	Insert(root opt.Option[T], idx T) opt.Option[T]
	// Remove deletes idx from under root, returning the new root.
	Remove(root opt.Option[T], idx T) opt.Option[T]
}
