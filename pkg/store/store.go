// Package store implements the link store's lifecycle and query
// dispatch (spec §4.1–§4.3): slot allocation and reuse over a RawMem
// slab, and the triple-pattern read/write API layered on top of the
// two embedded index trees.
package store

import (
	"github.com/uselessgoddess/dunes/internal/debug"
	"github.com/uselessgoddess/dunes/internal/opt"
	"github.com/uselessgoddess/dunes/pkg/link"
	"github.com/uselessgoddess/dunes/pkg/mem"
	"github.com/uselessgoddess/dunes/pkg/tree"
	"github.com/uselessgoddess/dunes/pkg/tree/art"
	"github.com/uselessgoddess/dunes/pkg/tree/sbt"
)

// initialCapacity is the slab size acquired at construction (spec §5).
const initialCapacity = 1024

// Strategy selects which balancing strategy backs a given tree at
// store-construction time (spec §9 "Strategy polymorphism").
type Strategy int

const (
	// SBT is the size-balanced strategy: fully general, supports
	// ordered range traversal. The default.
	SBT Strategy = iota
	// ART is the adaptive-radix strategy: no ordered range traversal,
	// so queries needing one fall back to a linear scan when a tree
	// uses it (spec §4.4.3, §9).
	ART
)

// Config configures a new Store.
type Config[T link.Index] struct {
	// Mem is the backing slab. If nil, a fresh mem.Heap is used.
	Mem mem.RawMem[Record[T]]
	// SourceStrategy and TargetStrategy independently select the
	// balancing strategy for each tree. Both default to SBT.
	SourceStrategy Strategy
	TargetStrategy Strategy
}

// Store is the link store: a slab of Record[T] plus the free list and
// the two embedded index trees over it.
type Store[T link.Index] struct {
	mem mem.RawMem[Record[T]]

	allocated uint64
	freeHead  opt.Option[T]
	freeCount uint64

	sourceRoot opt.Option[T]
	targetRoot opt.Option[T]

	sourceStrategy tree.Strategy[T]
	targetStrategy tree.Strategy[T]

	// sourceOrdered/targetOrdered report whether the corresponding
	// tree supports the ordered range traversal §4.2 needs for a
	// wildcard-target/wildcard-source query. False exactly when that
	// tree's strategy is ART (spec §4.4.3).
	sourceOrdered bool
	targetOrdered bool

	sourceView tree.View[T]
	targetView tree.View[T]
}

// New constructs a Store with the given configuration, acquiring an
// initial zero-filled 1024-record slab (spec §5).
func New[T link.Index](cfg Config[T]) (*Store[T], error) {
	backing := cfg.Mem
	if backing == nil {
		backing = mem.NewHeap[Record[T]]()
	}

	s := &Store[T]{
		mem:           backing,
		allocated:     1, // slot 0 is permanently reserved (spec §3 invariant 1)
		sourceOrdered: cfg.SourceStrategy == SBT,
		targetOrdered: cfg.TargetStrategy == SBT,
	}

	s.sourceView = tree.View[T]{
		Get: func(i T) tree.Node[T] { return s.record(i).SourceTree },
		Set: func(i T, n tree.Node[T]) {
			r := s.record(i)
			r.SourceTree = n
			s.setRecord(i, r)
		},
		Compare: func(a, b T) int {
			ra, rb := s.record(a), s.record(b)
			if c := comparePair(ra.Source, ra.Target, rb.Source, rb.Target); c != 0 {
				return c
			}

			return compareIndex(a, b)
		},
	}

	s.targetView = tree.View[T]{
		Get: func(i T) tree.Node[T] { return s.record(i).TargetTree },
		Set: func(i T, n tree.Node[T]) {
			r := s.record(i)
			r.TargetTree = n
			s.setRecord(i, r)
		},
		Compare: func(a, b T) int {
			ra, rb := s.record(a), s.record(b)
			if c := comparePair(ra.Target, ra.Source, rb.Target, rb.Source); c != 0 {
				return c
			}

			return compareIndex(a, b)
		},
	}

	s.sourceStrategy = newStrategy(cfg.SourceStrategy, s.sourceView)
	s.targetStrategy = newStrategy(cfg.TargetStrategy, s.targetView)

	page, err := s.mem.Grow(initialCapacity)
	if err != nil {
		return nil, link.AllocationFailedError{Cause: err}
	}
	page.Zeroed()

	return s, nil
}

func newStrategy[T link.Index](kind Strategy, v tree.View[T]) tree.Strategy[T] {
	if kind == ART {
		return art.New(v, func(i T) uint64 { return uint64(i) })
	}

	return sbt.New(v)
}

func comparePair[T link.Index](a1, a2, b1, b2 T) int {
	if c := compareIndex(a1, b1); c != 0 {
		return c
	}

	return compareIndex(a2, b2)
}

func compareIndex[T link.Index](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s *Store[T]) record(i T) Record[T] { return s.mem.AsSlice()[i] }

func (s *Store[T]) setRecord(i T, r Record[T]) { s.mem.AsMutSlice()[i] = r }

func (s *Store[T]) capacity() uint64 { return uint64(len(s.mem.AsSlice())) }

// Exists reports whether i names a live record.
func (s *Store[T]) Exists(i T) bool {
	return i != 0 && uint64(i) < s.allocated && !s.record(i).Free
}

// LiveCount returns the number of currently-live links (spec §3
// invariant 7: live_count == allocated - free_count - 1).
func (s *Store[T]) LiveCount() uint64 {
	return s.allocated - s.freeCount - 1
}

func fitsIndex[T link.Index](v uint64) bool { return uint64(T(v)) == v }

// allocate pops the free list if non-empty, otherwise extends the
// slab (doubling capacity on demand), and returns a fresh zeroed slot
// (spec §4.1).
func (s *Store[T]) allocate() (T, error) {
	if h, ok := s.freeHead.Get(); ok {
		r := s.record(h)
		if r.Source == 0 {
			s.freeHead = opt.None[T]()
		} else {
			s.freeHead = opt.Some(r.Source)
		}

		r.Source, r.Target, r.Free = 0, 0, false
		s.setRecord(h, r)
		s.freeCount--

		return h, nil
	}

	if !fitsIndex[T](s.allocated) {
		return 0, link.OverflowError{}
	}

	i := T(s.allocated)
	s.allocated++

	if s.allocated >= s.capacity() {
		page, err := s.mem.Grow(int(s.capacity()))
		if err != nil {
			return 0, link.AllocationFailedError{Cause: err}
		}
		page.Zeroed()
	}

	return i, nil
}

// free marks i as free and pushes it onto the free list. The caller
// must already have detached i from both trees (spec §4.1).
func (s *Store[T]) free(i T) {
	r := s.record(i)

	if h, ok := s.freeHead.Get(); ok {
		r.Source = h
	} else {
		r.Source = 0
	}

	r.Target = 0
	r.Free = true
	s.setRecord(i, r)

	s.freeHead = opt.Some(i)
	s.freeCount++
}

func (s *Store[T]) attach(i T) {
	s.sourceRoot = s.sourceStrategy.Insert(s.sourceRoot, i)
	s.targetRoot = s.targetStrategy.Insert(s.targetRoot, i)
}

func (s *Store[T]) detach(i T) {
	s.sourceRoot = s.sourceStrategy.Remove(s.sourceRoot, i)
	s.targetRoot = s.targetStrategy.Remove(s.targetRoot, i)
}

// Get returns the live link named by i, if any.
func (s *Store[T]) Get(i T) opt.Option[link.Link[T]] {
	if !s.Exists(i) {
		return opt.None[link.Link[T]]()
	}

	r := s.record(i)

	return opt.Some(link.New(i, r.Source, r.Target))
}

// Create allocates a new link with the given source and target,
// attaches it to both trees, and returns its index (spec §4.3).
// Arity-0 creates (0, 0); arity-1 [x] creates (x, x).
func (s *Store[T]) Create(query []T, onChange link.WriteHandler[T]) (T, error) {
	var source, target T

	switch len(query) {
	case 0:
	case 1:
		source, target = query[0], query[0]
	case 2:
		source, target = query[0], query[1]
	default:
		return 0, link.InvalidQueryError{}
	}

	i, err := s.allocate()
	if err != nil {
		return 0, err
	}

	r := s.record(i)
	r.Source, r.Target = source, target
	s.setRecord(i, r)

	s.attach(i)
	s.assertInvariants()

	if onChange != nil {
		onChange(link.Nothing[T](), link.New(i, source, target))
	}

	return i, nil
}

// Update rewrites the source/target of query[0], reattaching it to
// both trees if either component changed (spec §4.3). change follows
// the spec's [_, s', t'] shape: change[0] is an ignored placeholder
// (conventionally the index itself, as in "update([i], [i, s', t'])"),
// change[1] and change[2] are the new source and target.
func (s *Store[T]) Update(query []T, change []T, onChange link.WriteHandler[T]) error {
	if len(query) == 0 || len(change) < 3 {
		return link.InvalidQueryError{}
	}

	i := query[0]
	if !s.Exists(i) {
		return link.NotExistsError[T]{Index: i}
	}

	before := s.record(i)
	newSource, newTarget := change[1], change[2]

	if before.Source == newSource && before.Target == newTarget {
		return nil
	}

	beforeLink := link.New(i, before.Source, before.Target)

	s.detach(i)

	after := s.record(i)
	after.Source, after.Target = newSource, newTarget
	s.setRecord(i, after)

	s.attach(i)
	s.assertInvariants()

	if onChange != nil {
		onChange(beforeLink, link.New(i, newSource, newTarget))
	}

	return nil
}

// Delete detaches query[0] from both trees and frees its slot (spec
// §4.3).
func (s *Store[T]) Delete(query []T, onChange link.WriteHandler[T]) error {
	if len(query) == 0 {
		return link.InvalidQueryError{}
	}

	i := query[0]
	if !s.Exists(i) {
		return link.NotExistsError[T]{Index: i}
	}

	r := s.record(i)
	before := link.New(i, r.Source, r.Target)

	s.detach(i)
	s.free(i)
	s.assertInvariants()

	if onChange != nil {
		onChange(before, link.Nothing[T]())
	}

	return nil
}

// pattern is a normalized triple query: each component is either a
// concrete index or the ANY wildcard. Components the caller did not
// supply (arity < 3) are left as ANY.
type pattern[T link.Index] struct {
	index, source, target T
}

func normalize[T link.Index](query []T) (pattern[T], error) {
	var p pattern[T]

	switch len(query) {
	case 0:
	case 1:
		p.index = query[0]
	case 2:
		p.index, p.source = query[0], query[1]
	case 3:
		p.index, p.source, p.target = query[0], query[1], query[2]
	default:
		return pattern[T]{}, link.InvalidQueryError{}
	}

	return p, nil
}

// Each is the universal read primitive (spec §4.2).
func (s *Store[T]) Each(query []T, handler link.ReadHandler[T]) error {
	p, err := normalize(query)
	if err != nil {
		return err
	}

	any := link.Any[T]()

	if p.index != any {
		if !s.Exists(p.index) {
			return nil
		}

		r := s.record(p.index)
		if p.source != any && r.Source != p.source {
			return nil
		}
		if p.target != any && r.Target != p.target {
			return nil
		}

		handler(link.New(p.index, r.Source, r.Target))

		return nil
	}

	switch {
	case p.source != any && p.target != any:
		s.eachExact(p.source, p.target, handler)
	case p.source != any && p.target == any:
		s.eachSourceRange(p.source, handler)
	case p.source == any && p.target != any:
		s.eachTargetRange(p.target, handler)
	default:
		s.eachAll(handler)
	}

	return nil
}

// Count returns the number of live records matching query (spec §6.2).
func (s *Store[T]) Count(query []T) (uint64, error) {
	if len(query) == 0 {
		return s.LiveCount(), nil
	}

	var n uint64
	err := s.Each(query, func(link.Link[T]) link.Flow {
		n++
		return link.Continue
	})

	return n, err
}

// eachAll visits every live record in ascending index order (spec
// §4.2 "Tie-breaking": arity-0/1 ANY enumeration is index-ordered).
func (s *Store[T]) eachAll(handler link.ReadHandler[T]) {
	for i := uint64(1); i < s.allocated; i++ {
		idx := T(i)
		r := s.record(idx)
		if r.Free {
			continue
		}

		if handler(link.New(idx, r.Source, r.Target)) == link.Break {
			return
		}
	}
}

// eachExact looks up the single record keyed (source, target), if any.
func (s *Store[T]) eachExact(source, target T, handler link.ReadHandler[T]) {
	if !s.sourceOrdered {
		s.scanFilter(func(r Record[T]) bool { return r.Source == source && r.Target == target },
			func(l link.Link[T]) link.Flow {
				handler(l)
				return link.Break
			})

		return
	}

	if found, ok := s.findExact(source, target); ok {
		r := s.record(found)
		handler(link.New(found, r.Source, r.Target))
	}
}

// findExact descends the source-tree comparing the live (source,
// target) pair directly, independent of any particular record's own
// tie-break index — this is the one place the store needs to search
// for a key that may not belong to any existing record yet.
func (s *Store[T]) findExact(source, target T) (T, bool) {
	current, ok := s.sourceRoot.Get()
	if !ok {
		return 0, false
	}

	for {
		r := s.record(current)

		switch comparePair(source, target, r.Source, r.Target) {
		case 0:
			return current, true
		case -1:
			next, ok := s.sourceView.Left(current).Get()
			if !ok {
				return 0, false
			}
			current = next
		default:
			next, ok := s.sourceView.Right(current).Get()
			if !ok {
				return 0, false
			}
			current = next
		}
	}
}

// eachSourceRange visits every live record whose source equals source,
// in ascending target order. With ART on the source-tree (no ordered
// traversal, spec §4.4.3) it falls back to a linear scan.
func (s *Store[T]) eachSourceRange(source T, handler link.ReadHandler[T]) {
	if !s.sourceOrdered {
		s.scanFilter(func(r Record[T]) bool { return r.Source == source }, handler)

		return
	}

	start, ok := s.findSourceClusterStart(source)
	if !ok {
		return
	}

	for current, ok := start, true; ok; {
		r := s.record(current)
		if r.Source != source {
			return
		}

		if handler(link.New(current, r.Source, r.Target)) == link.Break {
			return
		}

		next := opt.None[T]()
		for n, more := s.sourceRoot.Get(); more; {
			if s.sourceView.IsLeftOf(current, n) {
				next = opt.Some(n)
				n, more = s.sourceView.Left(n).Get()
			} else {
				n, more = s.sourceView.Right(n).Get()
			}
		}
		current, ok = next.Get()
	}
}

// findSourceClusterStart locates the leftmost node of the contiguous
// (source, *) run in the source-tree: a standard lower-bound descent
// that keeps heading left through every match in search of an earlier
// one, since the run is contiguous under (source, target) order.
func (s *Store[T]) findSourceClusterStart(source T) (T, bool) {
	current, ok := s.sourceRoot.Get()
	if !ok {
		return 0, false
	}

	found, matched := current, false

	for ok {
		r := s.record(current)

		switch {
		case r.Source == source:
			found, matched = current, true
			current, ok = s.sourceView.Left(current).Get()
		case source < r.Source:
			current, ok = s.sourceView.Left(current).Get()
		default:
			current, ok = s.sourceView.Right(current).Get()
		}
	}

	return found, matched
}

// eachTargetRange is eachSourceRange's symmetric counterpart over the
// target-tree.
func (s *Store[T]) eachTargetRange(target T, handler link.ReadHandler[T]) {
	if !s.targetOrdered {
		s.scanFilter(func(r Record[T]) bool { return r.Target == target }, handler)

		return
	}

	start, ok := s.findTargetClusterStart(target)
	if !ok {
		return
	}

	for current, ok := start, true; ok; {
		r := s.record(current)
		if r.Target != target {
			return
		}

		if handler(link.New(current, r.Source, r.Target)) == link.Break {
			return
		}

		next := opt.None[T]()
		for n, more := s.targetRoot.Get(); more; {
			if s.targetView.IsLeftOf(current, n) {
				next = opt.Some(n)
				n, more = s.targetView.Left(n).Get()
			} else {
				n, more = s.targetView.Right(n).Get()
			}
		}
		current, ok = next.Get()
	}
}

// findTargetClusterStart is findSourceClusterStart's symmetric
// counterpart over the target-tree.
func (s *Store[T]) findTargetClusterStart(target T) (T, bool) {
	current, ok := s.targetRoot.Get()
	if !ok {
		return 0, false
	}

	found, matched := current, false

	for ok {
		r := s.record(current)

		switch {
		case r.Target == target:
			found, matched = current, true
			current, ok = s.targetView.Left(current).Get()
		case target < r.Target:
			current, ok = s.targetView.Left(current).Get()
		default:
			current, ok = s.targetView.Right(current).Get()
		}
	}

	return found, matched
}

// scanFilter linearly visits every live record matching keep, in
// ascending index order. Used as the ART fallback (spec §4.4.3, §9)
// and, when ART backs the source-tree, for exact (source, target)
// lookups too — the port of the original adaptive-radix strategy
// indexes on a record's own identity rather than a composite key
// (see pkg/tree/art), so it cannot answer a content query without
// already knowing the index; falling back here is honest rather than
// a broken fast path.
func (s *Store[T]) scanFilter(keep func(Record[T]) bool, handler link.ReadHandler[T]) {
	for i := uint64(1); i < s.allocated; i++ {
		idx := T(i)
		r := s.record(idx)
		if r.Free || !keep(r) {
			continue
		}

		if handler(link.New(idx, r.Source, r.Target)) == link.Break {
			return
		}
	}
}

// Search returns the index of the live record keyed (source, target),
// if any (spec §8 property 5, "search agrees with each").
func (s *Store[T]) Search(source, target T) opt.Option[T] {
	if !s.sourceOrdered {
		found := opt.None[T]()
		s.scanFilter(func(r Record[T]) bool { return r.Source == source && r.Target == target },
			func(l link.Link[T]) link.Flow {
				found = opt.Some(l.Index)
				return link.Break
			})

		return found
	}

	if i, ok := s.findExact(source, target); ok {
		return opt.Some(i)
	}

	return opt.None[T]()
}

// assertInvariants is a debug-only sanity check exercised by tests
// built with -tags debug; it is a no-op in production builds.
func (s *Store[T]) assertInvariants() {
	debug.Assert(s.allocated >= 1, "allocated must account for reserved slot 0")
	debug.Assert(s.LiveCount() <= s.allocated, "live count cannot exceed allocated")
}
