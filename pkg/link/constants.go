package link

// Constants bundles the sentinel values a store computes once from its
// index type and current capacity.
type Constants[T Index] struct {
	// Any is the wildcard/null sentinel: always 0.
	Any T
	// InternalStart is the first valid live index (1).
	InternalStart T
	// InternalEnd is one past the last internal index: the capacity
	// NewConstants was given.
	InternalEnd T
}

// NewConstants derives Constants for a store with the given capacity.
func NewConstants[T Index](capacity uint64) Constants[T] {
	return Constants[T]{
		Any:           0,
		InternalStart: 1,
		InternalEnd:   T(capacity),
	}
}

// IsAny reports whether v is the wildcard sentinel.
func (c Constants[T]) IsAny(v T) bool { return v == c.Any }

// IsInternal reports whether v falls within the store's live range.
func (c Constants[T]) IsInternal(v T) bool {
	return v >= c.InternalStart && v < c.InternalEnd
}

// IsExternal reports whether v is neither the wildcard nor internal.
func (c Constants[T]) IsExternal(v T) bool {
	return !c.IsAny(v) && !c.IsInternal(v)
}
