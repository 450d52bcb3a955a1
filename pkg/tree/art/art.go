// Package art implements the adaptive-radix-tree strategy (spec
// §4.4.3): a byte-keyed trie over the big-endian decomposition of an
// index, classifying each node's fanout (Node4/16/48/256) in the same
// Meta word the SBT strategy uses for subtree size.
//
// This strategy trades the SBT's ordered range queries for flatter,
// cache-friendlier lookups on keys whose bytes are well distributed —
// grounded directly on the simplified two-way (left/right) ART from
// the original implementation, which does not give every node real
// per-byte fanout storage. A production ART keeps one slot per byte
// value; this one, like the implementation it is ported from, buckets
// a byte into "left" (<128) or "right" (>=128) and relies on Meta only
// to report how full a bucket of that class nominally is. It is
// therefore a trie in name and in the spec's node-class accounting,
// but a two-way tree in actual branching — and, critically, it gives
// up ordered traversal: Leftmost/Successor/etc. over an ART root do
// not visit keys in sorted order, so any query needing a range must
// fall back to a linear scan (spec §4.2, §9).
package art

import (
	"github.com/uselessgoddess/dunes/internal/opt"
	"github.com/uselessgoddess/dunes/pkg/tree"
)

// NodeType classifies a node by how many children it currently has,
// per spec §4.4.3's metadata-word encoding.
type NodeType int

const (
	Empty NodeType = iota
	Node4
	Node16
	Node48
	Node256
)

// NodeTypeFromCount maps a child count to its node class, or false if
// the count exceeds what any class can represent (spec's fixed 0-256
// range for a single byte's worth of fanout).
func NodeTypeFromCount(count int) (NodeType, bool) {
	switch {
	case count == 0:
		return Empty, true
	case count <= 4:
		return Node4, true
	case count <= 16:
		return Node16, true
	case count <= 48:
		return Node48, true
	case count <= 256:
		return Node256, true
	default:
		return Empty, false
	}
}

// Tree is the adaptive-radix strategy over a tree.View. Index values
// are decomposed into 8 big-endian bytes (keyed on the view's index
// type via toUint64/fromUint64); only the low bytes of a 32-bit index
// are ever nonzero, which simply means its trie path is shorter.
type Tree[T comparable] struct {
	tree.View[T]
	toUint64 func(T) uint64
}

// New wires an adaptive-radix strategy over the given view. toUint64
// converts the view's index type to the unsigned 64-bit key space the
// trie branches on.
func New[T comparable](v tree.View[T], toUint64 func(T) uint64) Tree[T] {
	return Tree[T]{View: v, toUint64: toUint64}
}

var _ tree.Strategy[uint32] = Tree[uint32]{}

func (t Tree[T]) nodeType(i T) NodeType {
	nt, ok := NodeTypeFromCount(int(t.Get(i).Meta))
	if !ok {
		return Empty
	}

	return nt
}

func (t Tree[T]) setChildCount(i T, count int) {
	n := t.Get(i)
	n.Meta = uint64(count)
	t.Set(i, n)
}

func (t Tree[T]) childCount(i T) int { return int(t.Get(i).Meta) }

// keyByte extracts the byte at the given depth (0 = most significant
// of 8) from key's big-endian decomposition.
func keyByte(key uint64, depth int) byte {
	shift := uint((7 - depth%8) * 8)

	return byte((key >> shift) & 0xFF)
}

func (t Tree[T]) findChild(i T, b byte) opt.Option[T] {
	if t.nodeType(i) == Empty {
		return opt.None[T]()
	}

	if b < 128 {
		return t.Left(i)
	}

	return t.Right(i)
}

func (t Tree[T]) insertChild(i T, b byte, child T) {
	if b < 128 {
		t.SetLeft(i, opt.Some(child))
	} else {
		t.SetRight(i, opt.Some(child))
	}

	if nt, ok := NodeTypeFromCount(t.childCount(i) + 1); ok {
		t.setChildCount(i, int(nt.toCount()))
	}
}

func (t Tree[T]) removeChild(parent T, b byte) {
	if b < 128 {
		t.SetLeft(parent, opt.None[T]())
	} else {
		t.SetRight(parent, opt.None[T]())
	}

	count := t.childCount(parent) - 1
	if count < 0 {
		count = 0
	}

	if nt, ok := NodeTypeFromCount(count); ok {
		t.setChildCount(parent, int(nt.toCount()))
	}
}

// toCount reports the nominal fanout of a node class, mirroring the
// original's NodeType::to_size: the *ceiling* of the class, not the
// node's true occupancy. It exists only so that Meta keeps encoding a
// class identifier rather than a raw count once a node has been
// classified.
func (nt NodeType) toCount() int {
	switch nt {
	case Node4:
		return 4
	case Node16:
		return 16
	case Node48:
		return 48
	case Node256:
		return 256
	default:
		return 0
	}
}

// Contains reports whether key is reachable from root by descending
// the trie.
func (t Tree[T]) Contains(root, key T) bool {
	current := root
	k := t.toUint64(key)

	for depth := 0; depth <= 8; depth++ {
		if current == key {
			return true
		}

		next, ok := t.findChild(current, keyByte(k, depth)).Get()
		if !ok {
			return false
		}

		current = next
	}

	return false
}

// Insert adds key under root, returning the new root.
func (t Tree[T]) Insert(root opt.Option[T], key T) opt.Option[T] {
	r, ok := root.Get()
	if !ok {
		t.setChildCount(key, 0)

		return opt.Some(key)
	}

	if r == key {
		return root
	}

	k := t.toUint64(key)
	current := r

	for depth := 0; depth <= 8; depth++ {
		b := keyByte(k, depth)

		next, ok := t.findChild(current, b).Get()
		if !ok {
			t.setChildCount(key, 0)
			t.insertChild(current, b, key)

			return opt.Some(r)
		}

		if next == key {
			return opt.Some(r)
		}

		current = next
	}

	return opt.Some(r)
}

// Remove deletes key from under root, returning the new root.
func (t Tree[T]) Remove(root opt.Option[T], key T) opt.Option[T] {
	r, ok := root.Get()
	if !ok {
		return root
	}

	if r == key {
		t.Clear(key)

		return opt.None[T]()
	}

	t.removeImpl(r, key, 0)

	return opt.Some(r)
}

func (t Tree[T]) removeImpl(current, key T, depth int) bool {
	if depth > 8 {
		return false
	}

	k := t.toUint64(key)
	b := keyByte(k, depth)

	next, ok := t.findChild(current, b).Get()
	if !ok {
		return false
	}

	if next == key {
		t.removeChild(current, b)
		t.Clear(key)

		return true
	}

	return t.removeImpl(next, key, depth+1)
}
