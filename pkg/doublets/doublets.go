// Package doublets layers the convenience operations of the original
// implementation's Doublets trait (spec §5 "Supplemented Features") on
// top of a *store.Store: the single-result helpers around create/
// update/delete/search, plus usage counting and rebase.
package doublets

import (
	"github.com/uselessgoddess/dunes/pkg/link"
	"github.com/uselessgoddess/dunes/pkg/store"
)

// Doublets wraps a *store.Store with the higher-level, single-result
// operations callers reach for most often.
type Doublets[T link.Index] struct {
	store *store.Store[T]
}

// New wraps an existing store.
func New[T link.Index](s *store.Store[T]) Doublets[T] {
	return Doublets[T]{store: s}
}

// Store returns the underlying low-level store, for callers that need
// the full triple-pattern API directly.
func (d Doublets[T]) Store() *store.Store[T] { return d.store }

// CountAll returns the number of live links.
func (d Doublets[T]) CountAll() uint64 { return d.store.LiveCount() }

// CreateLink creates a link from source to target and returns its index.
func (d Doublets[T]) CreateLink(source, target T) (T, error) {
	return d.store.Create([]T{source, target}, nil)
}

// CreatePoint creates a point link: one whose source and target equal
// its own index. The index is not known until allocation, so this
// creates (0, 0) first and then updates the slot to reference itself.
func (d Doublets[T]) CreatePoint() (T, error) {
	index, err := d.store.Create(nil, nil)
	if err != nil {
		return 0, err
	}

	if err := d.store.Update([]T{index}, []T{index, index, index}, nil); err != nil {
		return 0, err
	}

	return index, nil
}

// UpdateLink rewrites the source and target of an existing link.
func (d Doublets[T]) UpdateLink(index, source, target T) error {
	return d.store.Update([]T{index}, []T{index, source, target}, nil)
}

// DeleteLink deletes a link by index.
func (d Doublets[T]) DeleteLink(index T) error {
	return d.store.Delete([]T{index}, nil)
}

// Search returns the index of the link keyed (source, target), if any.
func (d Doublets[T]) Search(source, target T) (T, bool) {
	return d.store.Search(source, target).Get()
}

// GetOrCreate returns the existing link keyed (source, target), or
// creates one if none exists.
func (d Doublets[T]) GetOrCreate(source, target T) (T, error) {
	if idx, ok := d.Search(source, target); ok {
		return idx, nil
	}

	return d.CreateLink(source, target)
}

// CountUsages counts the references to index held in the source and
// target fields of other links (a link using index as both its source
// and its target counts twice), excluding index's own self-references
// (so a point link, whose source and target both equal its own index,
// starts at 0).
func (d Doublets[T]) CountUsages(index T) (uint64, error) {
	l, ok := d.store.Get(index).Get()
	if !ok {
		return 0, link.NotExistsError[T]{Index: index}
	}

	any := link.Any[T]()

	bySource, err := d.store.Count([]T{any, index, any})
	if err != nil {
		return 0, err
	}
	if l.Source == index {
		bySource--
	}

	byTarget, err := d.store.Count([]T{any, any, index})
	if err != nil {
		return 0, err
	}
	if l.Target == index {
		byTarget--
	}

	return bySource + byTarget, nil
}

// HasUsages reports whether index is referenced by any other link.
func (d Doublets[T]) HasUsages(index T) bool {
	n, err := d.CountUsages(index)
	return err == nil && n != 0
}

// Rebase replaces every occurrence of old as a source or target with
// new across all other links, leaving old's own record untouched.
func (d Doublets[T]) Rebase(old, replacement T) error {
	if old == replacement {
		return nil
	}

	if !d.store.Exists(old) {
		return link.NotExistsError[T]{Index: old}
	}

	any := link.Any[T]()

	type change struct{ index, source, target T }

	var changes []change

	err := d.store.Each([]T{any, old, any}, func(l link.Link[T]) link.Flow {
		if l.Index != old {
			changes = append(changes, change{l.Index, replacement, l.Target})
		}
		return link.Continue
	})
	if err != nil {
		return err
	}

	err = d.store.Each([]T{any, any, old}, func(l link.Link[T]) link.Flow {
		if l.Index != old {
			source := l.Source
			if source == old {
				source = replacement
			}
			changes = append(changes, change{l.Index, source, replacement})
		}
		return link.Continue
	})
	if err != nil {
		return err
	}

	for _, c := range changes {
		if err := d.UpdateLink(c.index, c.source, c.target); err != nil {
			return err
		}
	}

	return nil
}

// RebaseAndDelete rebases old onto replacement and then deletes old.
func (d Doublets[T]) RebaseAndDelete(old, replacement T) error {
	if old == replacement {
		return nil
	}

	if err := d.Rebase(old, replacement); err != nil {
		return err
	}

	return d.DeleteLink(old)
}

// CollectAll returns every live link, in the order store.Each visits
// them.
func (d Doublets[T]) CollectAll() []link.Link[T] {
	all := make([]link.Link[T], 0, d.store.LiveCount())

	_ = d.store.Each(nil, func(l link.Link[T]) link.Flow {
		all = append(all, l)
		return link.Continue
	})

	return all
}
