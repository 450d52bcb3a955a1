// Package sbt implements the size-balanced tree strategy (spec §4.4.2):
// a Zhou-Chen weight-balanced BST whose node payload is the subtree
// size embedded in tree.Node's Meta word, rebalanced with the
// classic four-case maintain() rather than the original Rust
// implementation's pointer-walking insert/remove.
//
// The original's remove_impl spliced a node's in-order successor into
// the deleted slot by recursively removing the successor from the
// live right-subtree pointer it was still walking, which could revisit
// the same node twice and loop forever on certain shapes. This package
// instead always fully detaches the replacement with a self-contained
// recursive Remove *before* splicing it into the vacated slot, so the
// subtree handed back from that detach is already consistent.
package sbt

import (
	"github.com/uselessgoddess/dunes/internal/opt"
	"github.com/uselessgoddess/dunes/pkg/tree"
)

// Tree is the size-balanced strategy over a tree.View.
type Tree[T comparable] struct {
	tree.View[T]
}

// New wires a size-balanced strategy over the given view.
func New[T comparable](v tree.View[T]) Tree[T] {
	return Tree[T]{View: v}
}

var _ tree.Strategy[uint32] = Tree[uint32]{}

func (t Tree[T]) size(i T) uint64 { return t.Get(i).Meta }

func (t Tree[T]) setSize(i T, size uint64) {
	n := t.Get(i)
	n.Meta = size
	t.Set(i, n)
}

func (t Tree[T]) sizeOf(o opt.Option[T]) uint64 {
	i, ok := o.Get()
	if !ok {
		return 0
	}

	return t.size(i)
}

func (t Tree[T]) leftSize(i T) uint64  { return t.sizeOf(t.Left(i)) }
func (t Tree[T]) rightSize(i T) uint64 { return t.sizeOf(t.Right(i)) }

func (t Tree[T]) fixSize(i T) {
	t.setSize(i, t.leftSize(i)+t.rightSize(i)+1)
}

// rotateLeft rotates root's right child up, preserving the Zhou-Chen
// subtree-size invariant at both the old and new root.
func (t Tree[T]) rotateLeft(root T) T {
	right := t.Right(root).Unwrap()
	t.SetRight(root, t.Left(right))
	t.SetLeft(right, opt.Some(root))
	t.setSize(right, t.size(root))
	t.fixSize(root)

	return right
}

// rotateRight rotates root's left child up.
func (t Tree[T]) rotateRight(root T) T {
	left := t.Left(root).Unwrap()
	t.SetLeft(root, t.Right(left))
	t.SetRight(left, opt.Some(root))
	t.setSize(left, t.size(root))
	t.fixSize(root)

	return left
}

// maintain restores the Zhou-Chen balance invariant at root — neither
// of a child's two subtrees may outweigh the other child's subtree —
// using the textbook four-case
// rebalance, then recurses into whichever subtrees a rotation
// disturbed.
func (t Tree[T]) maintain(root T) T {
	left, hasLeft := t.Left(root).Get()
	right, hasRight := t.Right(root).Get()

	switch {
	case hasLeft && t.leftSize(left) > t.rightSize(root):
		root = t.rotateRight(root)
	case hasLeft && t.rightSize(left) > t.rightSize(root):
		t.SetLeft(root, opt.Some(t.rotateLeft(left)))
		root = t.rotateRight(root)
	case hasRight && t.rightSize(right) > t.leftSize(root):
		root = t.rotateLeft(root)
	case hasRight && t.leftSize(right) > t.leftSize(root):
		t.SetRight(root, opt.Some(t.rotateRight(right)))
		root = t.rotateLeft(root)
	default:
		return root
	}

	if newLeft, ok := t.Left(root).Get(); ok {
		t.SetLeft(root, opt.Some(t.maintain(newLeft)))
	}

	if newRight, ok := t.Right(root).Get(); ok {
		t.SetRight(root, opt.Some(t.maintain(newRight)))
	}

	return t.maintain(root)
}

// Insert adds idx under root, returning the new root. Re-inserting an
// index already present in the tree is a no-op (spec §4.4.2): the
// view's Compare is expected to give every distinct index a distinct
// position, so descent only ever lands on idx itself when idx was
// already there.
func (t Tree[T]) Insert(root opt.Option[T], idx T) opt.Option[T] {
	r, ok := root.Get()
	if !ok {
		t.setSize(idx, 1)
		return opt.Some(idx)
	}

	return opt.Some(t.insert(r, idx))
}

func (t Tree[T]) insert(root, idx T) T {
	if root == idx {
		return root
	}

	if t.IsLeftOf(idx, root) {
		t.SetLeft(root, opt.Some(t.insertChild(t.Left(root), idx)))
	} else {
		t.SetRight(root, opt.Some(t.insertChild(t.Right(root), idx)))
	}

	t.fixSize(root)

	return t.maintain(root)
}

func (t Tree[T]) insertChild(child opt.Option[T], idx T) T {
	c, ok := child.Get()
	if !ok {
		t.setSize(idx, 1)
		return idx
	}

	return t.insert(c, idx)
}

// Remove deletes idx from under root, returning the new root. Removing
// an index absent from the tree is a no-op.
func (t Tree[T]) Remove(root opt.Option[T], idx T) opt.Option[T] {
	r, ok := root.Get()
	if !ok {
		return root
	}

	return t.remove(r, idx)
}

func (t Tree[T]) remove(root, idx T) opt.Option[T] {
	switch {
	case t.IsLeftOf(idx, root):
		left, ok := t.Left(root).Get()
		if !ok {
			return opt.Some(root)
		}

		t.SetLeft(root, t.remove(left, idx))
		t.fixSize(root)

		return opt.Some(t.maintain(root))

	case t.IsRightOf(idx, root):
		right, ok := t.Right(root).Get()
		if !ok {
			return opt.Some(root)
		}

		t.SetRight(root, t.remove(right, idx))
		t.fixSize(root)

		return opt.Some(t.maintain(root))

	default:
		return t.removeHere(root)
	}
}

// removeHere removes root itself, splicing in whichever replacement
// keeps the subtree a valid BST. The two-children case always detaches
// the replacement with a full recursive Remove before it is spliced
// in, so the subtree handed back is never touched twice.
func (t Tree[T]) removeHere(root T) opt.Option[T] {
	left, hasLeft := t.Left(root).Get()
	right, hasRight := t.Right(root).Get()

	switch {
	case hasLeft && hasRight:
		leftSize, rightSize := t.size(left), t.size(right)

		var replacement T
		if leftSize > rightSize {
			replacement = t.Rightmost(left)
			t.SetLeft(root, t.remove(left, replacement))
		} else {
			replacement = t.Leftmost(right)
			t.SetRight(root, t.remove(right, replacement))
		}

		t.SetLeft(replacement, t.Left(root))
		t.SetRight(replacement, t.Right(root))
		t.setSize(replacement, leftSize+rightSize)
		t.Clear(root)

		return opt.Some(t.maintain(replacement))

	case hasLeft:
		t.Clear(root)

		return opt.Some(left)

	case hasRight:
		t.Clear(root)

		return opt.Some(right)

	default:
		t.Clear(root)

		return opt.None[T]()
	}
}
