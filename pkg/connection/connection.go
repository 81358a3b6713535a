// Package connection defines how stores reach the placement API.
//
// A Remote sends one JSON request and decodes the JSON answer. Paths are either relative
// to the configured base URL (the initial listing endpoints) or absolute URLs taken
// verbatim from a record's self/rel_* fields; a Remote never derives locators from
// naming conventions. Remotes do not retry.
package connection

import (
	"context"
	"net/http"
)

type Remote interface {
	// Send issues method against path. body, when non-nil, is encoded as the request
	// body; dst, when non-nil, receives the decoded response.
	Send(ctx context.Context, method, path string, body, dst any) error
}

// Get decodes the response of a GET into a new T.
func Get[T any](ctx context.Context, r Remote, path string) (T, error) {
	var out T
	err := r.Send(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Post sends body and decodes the created record.
func Post[T any](ctx context.Context, r Remote, path string, body any) (T, error) {
	var out T
	err := r.Send(ctx, http.MethodPost, path, body, &out)
	return out, err
}

func Put[T any](ctx context.Context, r Remote, path string, body any) (T, error) {
	var out T
	err := r.Send(ctx, http.MethodPut, path, body, &out)
	return out, err
}

func Patch[T any](ctx context.Context, r Remote, path string, body any) (T, error) {
	var out T
	err := r.Send(ctx, http.MethodPatch, path, body, &out)
	return out, err
}

func Delete(ctx context.Context, r Remote, path string) error {
	return r.Send(ctx, http.MethodDelete, path, nil, nil)
}

// IsMutating reports whether method changes server state and therefore needs the
// anti-forgery token.
func IsMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
