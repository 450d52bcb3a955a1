package store

import (
	"github.com/uselessgoddess/dunes/pkg/link"
	"github.com/uselessgoddess/dunes/pkg/tree"
)

// Record is the on-slab storage slot for one link (spec §3): the two
// index components, the two embedded tree-node payloads (one per
// ordering), and the free/live marker.
//
// Free is a dedicated field rather than a repurposed high bit of
// Source or Target, sidestepping the "0 means end-of-list, which
// collides with the reserved null index" ambiguity the source material
// warned about (spec §9): the free-list's next pointer is carried in
// Source exactly as the invariant requires, but whether that value
// means "next free slot" or "index 0, the reserved ANY sentinel" is
// never ambiguous, because Free says which.
type Record[T link.Index] struct {
	Source T
	Target T

	SourceTree tree.Node[T]
	TargetTree tree.Node[T]

	Free bool
}
