// Package collection implements the insert/update/remove routine every store applies to
// its raw collections.
//
// Records are copied through a codec on the way in, so the caller's value never aliases
// the stored one. An update replaces the stored element with a copy of the incoming
// record at the same index; Merge overlays only the top-level fields present in an
// encoded partial record. A missing id makes update and remove a no-op. Inserting an id that is already present fails with
// constants.ErrDuplicateID and leaves the collection unchanged.
package collection

import (
	"fmt"
	"slices"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/constants"
)

type Action string

const (
	Insert Action = "insert"
	Update Action = "update"
	Remove Action = "remove"
)

type Identifiable interface {
	RecordID() int
}

// Record is an element of a Collection. Clone returns a copy sharing no memory with
// the receiver.
type Record[T any] interface {
	Identifiable
	Clone() T
}

// Apply runs action for record against items.
func Apply[T Identifiable](c codec.Codec, items *[]T, action Action, record T) error {
	switch action {
	case Insert:
		return insert(c, items, record)
	case Update:
		_, err := replace(c, *items, record)
		return err
	case Remove:
		remove(items, record.RecordID())
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// Merge applies an encoded partial record to the element with the given id. Only the
// fields present in patch change.
func Merge[T Identifiable](c codec.Codec, items []T, id int, patch []byte) (bool, error) {
	return merge(c, items, id, patch)
}

// Clone deep-copies v through c.
func Clone[T any](c codec.Codec, v T) (T, error) {
	var out T
	data, err := c.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("encode %T: %w", v, err)
	}
	if err := c.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %T: %w", v, err)
	}
	return out, nil
}

func indexOf[T Identifiable](items []T, id int) int {
	return slices.IndexFunc(items, func(item T) bool {
		return item.RecordID() == id
	})
}

func insert[T Identifiable](c codec.Codec, items *[]T, record T) error {
	if indexOf(*items, record.RecordID()) >= 0 {
		return fmt.Errorf("%w: %d", constants.ErrDuplicateID, record.RecordID())
	}
	cp, err := Clone(c, record)
	if err != nil {
		return err
	}
	*items = append(*items, cp)
	return nil
}

func replace[T Identifiable](c codec.Codec, items []T, record T) (bool, error) {
	idx := indexOf(items, record.RecordID())
	if idx < 0 {
		return false, nil
	}
	cp, err := Clone(c, record)
	if err != nil {
		return false, err
	}
	items[idx] = cp
	return true, nil
}

// merge decodes the overlaid fields into a zero T, so a field the patch sets to null
// or an empty list is cleared and nested lists are replaced whole.
func merge[T Identifiable](c codec.Codec, items []T, id int, patch []byte) (bool, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return false, nil
	}
	base, err := c.Marshal(items[idx])
	if err != nil {
		return false, fmt.Errorf("encode %T %d: %w", items[idx], id, err)
	}
	merged, err := c.MergeFields(base, patch)
	if err != nil {
		return false, fmt.Errorf("merge into %T %d: %w", items[idx], id, err)
	}
	var next T
	if err := c.Unmarshal(merged, &next); err != nil {
		return false, fmt.Errorf("merge into %T %d: %w", next, id, err)
	}
	items[idx] = next
	return true, nil
}

func remove[T Identifiable](items *[]T, id int) bool {
	idx := indexOf(*items, id)
	if idx < 0 {
		return false
	}
	*items = slices.Delete(*items, idx, idx+1)
	return true
}
