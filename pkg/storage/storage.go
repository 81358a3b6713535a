// Package storage is a key/value store with per-key expiry, used to keep fetched
// records between runs.
//
// Values are encoded with a value codec (JSON by default, so records keep their wire
// form) and wrapped in a CBOR envelope carrying the expiry. Expired keys read as absent
// and are removed on read.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metis-placement/metis.go/internal/codec"
)

// Backend persists encoded entries.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

type entry struct {
	Value []byte `cbor:"1,keyasint"`
	// unix milliseconds, 0 for no expiry
	Expires int64 `cbor:"2,keyasint,omitempty"`
}

type Option func(*Storage)

// WithCodec sets the codec values are encoded with.
func WithCodec(c codec.Codec) Option {
	return func(s *Storage) { s.values = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

type Storage struct {
	backend  Backend
	values   codec.Codec
	envelope codec.Codec
	now      func() time.Time
}

func New(backend Backend, opts ...Option) *Storage {
	s := &Storage{
		backend:  backend,
		values:   codec.JSON(),
		envelope: codec.CBOR(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get decodes the value of key into dst. It reports false for absent and expired keys.
func (s *Storage) Get(ctx context.Context, key string, dst any) (bool, error) {
	e, ok, err := s.load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.values.Unmarshal(e.Value, dst); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key. A ttl of 0 never expires.
func (s *Storage) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("storage: negative ttl %s", ttl)
	}
	data, err := s.values.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	e := entry{Value: data}
	if ttl > 0 {
		e.Expires = s.now().Add(ttl).UnixMilli()
	}
	raw, err := s.envelope.Marshal(e)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	return s.backend.Store(ctx, key, raw)
}

func (s *Storage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.backend.Delete(ctx, keys...)
}

func (s *Storage) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

// ClearExpired removes every expired key.
func (s *Storage) ClearExpired(ctx context.Context) error {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range keys {
		if _, _, err := s.load(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Storage) load(ctx context.Context, key string) (entry, bool, error) {
	var e entry
	raw, ok, err := s.backend.Load(ctx, key)
	if err != nil || !ok {
		return e, false, err
	}
	if err := s.envelope.Unmarshal(raw, &e); err != nil {
		return e, false, fmt.Errorf("storage: corrupt entry %q: %w", key, err)
	}
	if e.Expires != 0 && e.Expires < s.now().UnixMilli() {
		return e, false, s.backend.Delete(ctx, key)
	}
	return e, true, nil
}
