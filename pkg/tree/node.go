// Package tree implements the embedded intrusive BST core shared by
// both balancing strategies (spec §4.4.1, §4.4.4).
//
// A tree node's payload lives inside the link record it indexes — it
// is never a separately allocated object. This package therefore never
// allocates; it is handed accessor closures that read and write a
// particular Node field of whichever record storage the caller owns,
// and does all of its navigation through indices rather than pointers.
package tree

import "github.com/uselessgoddess/dunes/internal/opt"

// Node is the payload embedded in a link record for one tree. Left and
// Right are child indices; Meta is a 64-bit word whose meaning is
// strategy-specific (SBT: subtree size; ART: node class and fanout,
// see pkg/tree/art).
type Node[T any] struct {
	Left  opt.Option[T]
	Right opt.Option[T]
	Meta  uint64
}
