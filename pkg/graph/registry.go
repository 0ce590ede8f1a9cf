package graph

import "sort"

// Keyed is implemented by every entity stored in a Registry.
type Keyed interface {
	Key() int
}

// RegistryBuilder collects entities during load. Lookups are only possible
// on the Registry returned by Sort, so an unsorted collection can never be
// searched.
type RegistryBuilder[T Keyed] struct {
	items      []T
	seen       map[int]struct{}
	duplicates []int
}

// NewRegistryBuilder creates a builder with room for capacity entities.
func NewRegistryBuilder[T Keyed](capacity int) *RegistryBuilder[T] {
	return &RegistryBuilder[T]{
		items: make([]T, 0, capacity),
		seen:  make(map[int]struct{}, capacity),
	}
}

// Add appends item. Returns false (and records the key) if an entity with
// the same key was already added; the first one wins.
func (b *RegistryBuilder[T]) Add(item T) bool {
	k := item.Key()
	if _, dup := b.seen[k]; dup {
		b.duplicates = append(b.duplicates, k)
		return false
	}
	b.seen[k] = struct{}{}
	b.items = append(b.items, item)
	return true
}

// Duplicates returns the keys rejected by Add, in the order they were seen.
func (b *RegistryBuilder[T]) Duplicates() []int {
	return b.duplicates
}

// Sort orders the collected entities by key and hands them over to an
// immutable Registry. The builder is empty afterwards.
func (b *RegistryBuilder[T]) Sort() *Registry[T] {
	items := b.items
	if len(items) > 1 {
		quicksort(items, 0, len(items)-1)
	}
	b.items = nil
	b.seen = nil
	return &Registry[T]{items: items}
}

// quicksort is an in-place partition-exchange sort with a middle pivot.
// Not stable; keys are unique so that does not matter.
func quicksort[T Keyed](items []T, low, high int) {
	i, j := low, high
	pivot := items[low+(high-low)/2].Key()

	for i <= j {
		for items[i].Key() < pivot {
			i++
		}
		for items[j].Key() > pivot {
			j--
		}
		if i <= j {
			items[i], items[j] = items[j], items[i]
			i++
			j--
		}
	}
	if low < j {
		quicksort(items, low, j)
	}
	if i < high {
		quicksort(items, i, high)
	}
}

// Registry is a key-sorted, read-only collection of entities.
type Registry[T Keyed] struct {
	items []T
}

// Len returns the number of entities.
func (r *Registry[T]) Len() int { return len(r.items) }

// At returns the entity at position i in key order.
func (r *Registry[T]) At(i int) T { return r.items[i] }

// All returns the entities in key order. The slice must not be modified.
func (r *Registry[T]) All() []T { return r.items }

// Index returns the position of the entity with the given key, or -1.
func (r *Registry[T]) Index(key int) int {
	i := sort.Search(len(r.items), func(i int) bool {
		return r.items[i].Key() >= key
	})
	if i < len(r.items) && r.items[i].Key() == key {
		return i
	}
	return -1
}

// Get returns the entity with the given key.
func (r *Registry[T]) Get(key int) (T, bool) {
	var zero T
	i := r.Index(key)
	if i < 0 {
		return zero, false
	}
	return r.items[i], true
}

// Contains reports whether an entity with item's key is present.
func (r *Registry[T]) Contains(item T) bool {
	return r.Index(item.Key()) >= 0
}
