package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/metis-placement/metis.go/internal/codec"
)

// File keeps every entry in a single CBOR document. The whole document is rewritten on
// each change through a temporary file in the same directory.
type File struct {
	mu    sync.Mutex
	path  string
	codec codec.Codec
}

func NewFile(path string) *File {
	return &File{path: path, codec: codec.CBOR()}
}

func (f *File) Load(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return nil, false, err
	}
	data, ok := entries[key]
	return data, ok, nil
}

func (f *File) Store(_ context.Context, key string, data []byte) error {
	return f.update(func(entries map[string][]byte) {
		entries[key] = data
	})
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	return f.update(func(entries map[string][]byte) {
		for _, k := range keys {
			delete(entries, k)
		}
	})
}

func (f *File) Keys(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(entries)), nil
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f *File) update(fn func(map[string][]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	fn(entries)
	return f.write(entries)
}

func (f *File) read() (map[string][]byte, error) {
	entries := map[string][]byte{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if err := f.codec.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *File) write(entries map[string][]byte) error {
	data, err := f.codec.Marshal(entries)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
