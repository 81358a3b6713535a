package store

import (
	"fmt"

	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/models"
)

// As returns r as a T, accepting both T and *T.
func As[T any](r models.Record) (T, error) {
	switch v := any(r).(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: got %T, want %T", constants.ErrRecordType, r, zero)
}

// CloneAll deep-copies every element of in. A nil slice stays nil.
func CloneAll[T interface{ Clone() T }](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}
