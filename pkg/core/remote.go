package core

import (
	"context"
	"io"
	"strings"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/httpstore"
	"github.com/oneconcern/autodataman/pkg/storage/localfs"
	storagestatus "github.com/oneconcern/autodataman/pkg/storage/status"
	"go.uber.org/zap"
)

const fileScheme = "file://"

// Remote is a read-only repository served over http(s) or published in a local directory
type Remote struct {
	store storage.Store
}

// NewRemote wraps any store as a remote repository
func NewRemote(store storage.Store) *Remote {
	return &Remote{store: store}
}

// OpenRemote builds a remote repository from its location: an http:// or https:// URL,
// a file:// URL or a plain directory path.
func OpenRemote(location string, opts ...httpstore.Option) (*Remote, error) {
	switch {
	case location == "":
		return nil, storagestatus.ErrInvalidResource.Wrapf("no server specified")
	case httpstore.IsURL(location):
		store, err := httpstore.New(location, opts...)
		if err != nil {
			return nil, err
		}
		return NewRemote(store), nil
	case strings.HasPrefix(location, fileScheme):
		return NewRemote(localfs.NewReadOnly(strings.TrimPrefix(location, fileScheme))), nil
	default:
		return NewRemote(localfs.NewReadOnly(location)), nil
	}
}

// Instrument logs every access to the remote repository at debug level
func (r *Remote) Instrument(l *zap.Logger) *Remote {
	return NewRemote(storage.Instrument(r.store, l))
}

func (r *Remote) String() string {
	return r.store.String()
}

func (r *Remote) read(ctx context.Context, key string) ([]byte, error) {
	return storage.ReadAllWithFallback(ctx, r.store, key, model.LegacyDescriptorPath(key))
}

// Repository loads the remote repository descriptor
func (r *Remote) Repository(ctx context.Context) (*model.Repository, error) {
	key := model.GetPathToRepoDescriptor()
	b, err := r.read(ctx, key)
	if err != nil {
		return nil, err
	}
	repo, err := model.LoadRepository(b)
	if err != nil {
		return nil, qualifyDescriptor(err, r.String()+": "+key)
	}
	return repo, nil
}

// Dataset loads a remote dataset descriptor
func (r *Remote) Dataset(ctx context.Context, dataset string) (*model.Dataset, error) {
	key := model.GetPathToDatasetDescriptor(dataset)
	b, err := r.read(ctx, key)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrDatasetNotFound.Wrapf("%s: %v", dataset, err)
		}
		return nil, err
	}
	ds, err := model.LoadDataset(b)
	if err != nil {
		return nil, qualifyDescriptor(err, r.String()+": "+key)
	}
	return ds, nil
}

// Version loads a remote version descriptor
func (r *Remote) Version(ctx context.Context, dataset, version string) (*model.Version, error) {
	key := model.GetPathToVersionDescriptor(dataset, version)
	b, err := r.read(ctx, key)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrVersionNotFound.Wrapf("%s/%s: %v", dataset, version, err)
		}
		return nil, err
	}
	v, err := model.LoadVersion(b)
	if err != nil {
		return nil, qualifyDescriptor(err, r.String()+": "+key)
	}
	return v, nil
}

// HasFile tells if a data file of some version is present
func (r *Remote) HasFile(ctx context.Context, dataset, version, filename string) (bool, error) {
	return r.store.Has(ctx, model.GetPathToFile(dataset, version, filename))
}

// Fetch opens a data file of some version
func (r *Remote) Fetch(ctx context.Context, dataset, version, filename string) (io.ReadCloser, error) {
	return r.store.Get(ctx, model.GetPathToFile(dataset, version, filename))
}
