// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"

	units "github.com/docker/go-units"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/storage/status"
)

// MaxObjectSizeInMemory is the largest object ReadAll accepts
const MaxObjectSizeInMemory = 64 * units.MiB

const (
	// IfNotPresent makes Put fail with status.ErrExists if the key already exists
	IfNotPresent = true
	// OverWrite makes Put replace any existing object
	OverWrite = false
)

// Store implementations know how to read and write objects designated by slash-separated keys.
//
// Typically this is something file system-like: a local directory or a web server.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
}

// ReadAll retrieves a whole object in memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	object, err := io.ReadAll(io.LimitReader(reader, MaxObjectSizeInMemory+1))
	if err != nil {
		return nil, err
	}
	if len(object) > MaxObjectSizeInMemory {
		return nil, status.ErrObjectTooBig.Wrapf("%s: %s", store, key)
	}
	return object, nil
}

// ReadAllWithFallback retrieves an object, trying the fallback key when the first one does not exist.
//
// The error for the first key is returned when both are missing.
func ReadAllWithFallback(ctx context.Context, store Store, key, fallback string) ([]byte, error) {
	object, err := ReadAll(ctx, store, key)
	if err == nil || fallback == "" || fallback == key || !errors.Is(err, status.ErrNotExists) {
		return object, err
	}
	object, errFallback := ReadAll(ctx, store, fallback)
	if errFallback != nil {
		if errors.Is(errFallback, status.ErrNotExists) {
			return nil, err
		}
		return nil, errFallback
	}
	return object, nil
}
