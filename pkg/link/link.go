package link

import "fmt"

// Link is the external view of a doublet: a triple (Index, Source,
// Target) of indices into the same store. Index is never 0 for a live
// link; Source and Target range over {0} ∪ live indices.
type Link[T Index] struct {
	Index  T
	Source T
	Target T
}

// New builds a Link from its three components.
func New[T Index](index, source, target T) Link[T] {
	return Link[T]{Index: index, Source: source, Target: target}
}

// Point builds a "point" link, one whose source and target both equal
// its own index.
func Point[T Index](index T) Link[T] { return New(index, index, index) }

// Nothing is the null link, returned as the "before" state of a
// creation or the "after" state of a deletion.
func Nothing[T Index]() Link[T] { return Link[T]{} }

// IsNull reports whether l is the null link.
func (l Link[T]) IsNull() bool {
	return l.Index == 0 && l.Source == 0 && l.Target == 0
}

// IsFull reports whether l is a point: index, source, and target all equal.
func (l Link[T]) IsFull() bool {
	return l.Index == l.Source && l.Index == l.Target
}

// IsPartial reports whether l's index equals its source or its target
// (but not necessarily both).
func (l Link[T]) IsPartial() bool {
	return l.Index == l.Source || l.Index == l.Target
}

// String implements fmt.Stringer.
func (l Link[T]) String() string {
	return fmt.Sprintf("%v: %v %v", l.Index, l.Source, l.Target)
}
