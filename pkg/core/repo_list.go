package core

import (
	"context"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/model"
	"go.uber.org/multierr"
)

// DatasetListing is a local dataset with its versions.
//
// Err is set when the dataset descriptor could not be loaded.
type DatasetListing struct {
	Name    string
	Dataset *model.Dataset
	Err     error
}

// DatasetInfo describes a dataset on both sides. A nil side means the dataset is not there, or
// that this side was not inspected.
type DatasetInfo struct {
	Name      string
	Remote    *model.Dataset
	Local     *model.Dataset
	RemoteErr error
	LocalErr  error
}

// Avail lists the datasets available on a remote repository
func Avail(ctx context.Context, remote *Remote) ([]string, error) {
	repo, err := remote.Repository(ctx)
	if err != nil {
		return nil, err
	}
	return repo.Datasets, nil
}

// List the datasets of a local repository, with their versions
func List(ctx context.Context, local *LocalRepo) ([]DatasetListing, error) {
	repo, err := local.Repository(ctx)
	if err != nil {
		return nil, err
	}
	listing := make([]DatasetListing, 0, len(repo.Datasets))
	for _, name := range repo.Datasets {
		ds, err := local.Dataset(ctx, name)
		listing = append(listing, DatasetListing{Name: name, Dataset: ds, Err: err})
	}
	return listing, nil
}

// Info describes a dataset on the remote and local repositories. Either may be nil.
//
// Each side is inspected independently: the returned error combines the failures of both sides,
// and the info holds whatever could be retrieved.
func Info(ctx context.Context, remote *Remote, local *LocalRepo, dataset string) (DatasetInfo, error) {
	info := DatasetInfo{Name: dataset}
	if err := model.ValidateName(dataset); err != nil {
		return info, status.ErrMalformedSpecifier.Wrapf("%q: %v", dataset, err)
	}

	if remote != nil {
		info.Remote, info.RemoteErr = remoteInfo(ctx, remote, dataset)
	}
	if local != nil {
		info.Local, info.LocalErr = localInfo(ctx, local, dataset)
	}
	return info, multierr.Combine(info.RemoteErr, info.LocalErr)
}

func remoteInfo(ctx context.Context, remote *Remote, dataset string) (*model.Dataset, error) {
	repo, err := remote.Repository(ctx)
	if err != nil {
		return nil, err
	}
	if !repo.HasDataset(dataset) {
		return nil, nil
	}
	return remote.Dataset(ctx, dataset)
}

func localInfo(ctx context.Context, local *LocalRepo, dataset string) (*model.Dataset, error) {
	repo, err := local.Repository(ctx)
	if err != nil {
		return nil, err
	}
	if !repo.HasDataset(dataset) {
		return nil, nil
	}
	return local.Dataset(ctx, dataset)
}
