package collection

import (
	"slices"

	"github.com/metis-placement/metis.go/internal/codec"
)

// Collection is a raw collection with a version that changes on every mutation, so
// derived views can tell when to recompute. It is not safe for concurrent use; the
// owning store serializes access.
//
// Elements never leave or enter a Collection by reference: every read returns clones
// and Reset stores clones.
type Collection[T Record[T]] struct {
	codec   codec.Codec
	items   []T
	version uint64
}

func New[T Record[T]](c codec.Codec) *Collection[T] {
	return &Collection[T]{codec: c}
}

// Reset replaces the whole content, e.g. when a fetch settles. A nil slice empties it.
func (c *Collection[T]) Reset(items []T) {
	c.items = cloneAll(items)
	c.version++
}

// Items returns a deep copy of the elements.
func (c *Collection[T]) Items() []T {
	return cloneAll(c.items)
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) Version() uint64 {
	return c.version
}

func (c *Collection[T]) Get(id int) (T, bool) {
	if idx := indexOf(c.items, id); idx >= 0 {
		return c.items[idx].Clone(), true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Apply(action Action, record T) error {
	if err := Apply(c.codec, &c.items, action, record); err != nil {
		return err
	}
	c.version++
	return nil
}

func (c *Collection[T]) Insert(record T) error {
	return c.Apply(Insert, record)
}

func (c *Collection[T]) Update(record T) error {
	return c.Apply(Update, record)
}

func (c *Collection[T]) Remove(record T) error {
	return c.Apply(Remove, record)
}

// Merge applies an encoded partial record. It reports whether the id was found.
func (c *Collection[T]) Merge(id int, patch []byte) (bool, error) {
	ok, err := merge(c.codec, c.items, id, patch)
	if ok {
		c.version++
	}
	return ok, err
}

// Mutate hands fn a copy of the element with the given id and stores it back if fn
// succeeds. It is used for records nested inside an element.
func (c *Collection[T]) Mutate(id int, fn func(*T) error) (bool, error) {
	idx := indexOf(c.items, id)
	if idx < 0 {
		return false, nil
	}
	next := c.items[idx].Clone()
	if err := fn(&next); err != nil {
		return false, err
	}
	c.items[idx] = next
	c.version++
	return true, nil
}

// Find returns the first element matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	if idx := slices.IndexFunc(c.items, pred); idx >= 0 {
		return c.items[idx].Clone(), true
	}
	var zero T
	return zero, false
}

func cloneAll[T Record[T]](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = v.Clone()
	}
	return out
}
