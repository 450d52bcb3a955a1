package tree_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/uselessgoddess/dunes/internal/opt"
	. "github.com/uselessgoddess/dunes/pkg/tree"
)

// buildView wires a View over a plain in-memory slab, ordered by the
// natural order of the index itself — enough to exercise navigation
// without pulling in either balancing strategy.
func buildView(t *testing.T) (View[uint32], func(i uint32, left, right opt.Option[uint32])) {
	t.Helper()

	nodes := make(map[uint32]Node[uint32])

	v := View[uint32]{
		Get: func(i uint32) Node[uint32] { return nodes[i] },
		Set: func(i uint32, n Node[uint32]) { nodes[i] = n },
		Compare: func(a, b uint32) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		},
	}

	link := func(i uint32, left, right opt.Option[uint32]) {
		nodes[i] = Node[uint32]{Left: left, Right: right}
	}

	return v, link
}

func TestViewNavigation(t *testing.T) {
	Convey("Given a small hand-linked tree", t, func() {
		v, link := buildView(t)

		//        5
		//       / \
		//      3   8
		//       \
		//        4
		link(5, opt.Some[uint32](3), opt.Some[uint32](8))
		link(3, opt.None[uint32](), opt.Some[uint32](4))
		link(4, opt.None[uint32](), opt.None[uint32]())
		link(8, opt.None[uint32](), opt.None[uint32]())

		Convey("Leftmost and Rightmost find the spine extremes", func() {
			So(v.Leftmost(5), ShouldEqual, uint32(3))
			So(v.Rightmost(5), ShouldEqual, uint32(8))
		})

		Convey("Successor climbs into the right subtree's leftmost node", func() {
			next, ok := v.Successor(3).Get()
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, uint32(4))
		})

		Convey("Predecessor descends into the left subtree's rightmost node", func() {
			prev, ok := v.Predecessor(5).Get()
			So(ok, ShouldBeTrue)
			So(prev, ShouldEqual, uint32(4))
		})

		Convey("A leaf with no right child has no successor", func() {
			_, ok := v.Successor(4).Get()
			So(ok, ShouldBeFalse)
		})

		Convey("Contains reports reachability under the key ordering", func() {
			So(v.Contains(5, 4), ShouldBeTrue)
			So(v.Contains(5, 8), ShouldBeTrue)
			So(v.Contains(5, 99), ShouldBeFalse)
		})

		Convey("SetLeft and SetRight rewrite a single child in place", func() {
			v.SetRight(8, opt.Some[uint32](9))
			right, ok := v.Right(8).Get()
			So(ok, ShouldBeTrue)
			So(right, ShouldEqual, uint32(9))
		})

		Convey("Clear drops both children", func() {
			v.Clear(3)
			So(v.Left(3).IsNone(), ShouldBeTrue)
			So(v.Right(3).IsNone(), ShouldBeTrue)
		})
	})
}
