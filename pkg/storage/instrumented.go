// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

// Instrument a store: every operation is logged at debug level, with its duration and outcome
func Instrument(store Store, l *zap.Logger) Store {
	if l == nil {
		return store
	}
	return &instrumentedStore{store: store, l: l}
}

type instrumentedStore struct {
	store Store
	l     *zap.Logger
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) trace(op, key string, start time.Time, err error) {
	i.l.Debug("store "+op,
		zap.Stringer("store", i.store),
		zap.String("key", key),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (has bool, err error) {
	defer func(t0 time.Time) { i.trace("has", key, t0, err) }(time.Now())
	return i.store.Has(ctx, key)
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (rdr io.ReadCloser, err error) {
	defer func(t0 time.Time) { i.trace("get", key, t0, err) }(time.Now())
	return i.store.Get(ctx, key)
}

func (i *instrumentedStore) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) (err error) {
	defer func(t0 time.Time) { i.trace("put", key, t0, err) }(time.Now())
	return i.store.Put(ctx, key, rdr, exclusive)
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) (err error) {
	defer func(t0 time.Time) { i.trace("delete", key, t0, err) }(time.Now())
	return i.store.Delete(ctx, key)
}
