package core

import (
	"context"
	"strings"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/model"
	"go.uber.org/zap"
)

// RemoveResult reports what Remove deleted from the local repository
type RemoveResult struct {
	Dataset      string
	Versions     []string
	WholeDataset bool
}

// Remove deletes a version, or a whole dataset, from the local repository.
//
// Without a version, a dataset holding at most one version is removed entirely.
// A dataset holding several versions is only removed with WithRemoveAll, otherwise
// status.ErrAmbiguousRemoval is returned and nothing is touched.
func Remove(ctx context.Context, local *LocalRepo, specifier string, opts ...RemoveOption) (RemoveResult, error) {
	o := removeOptionsWithDefaults(opts)

	dataset, version, err := ResolveSpecifier(specifier)
	if err != nil {
		return RemoveResult{}, err
	}
	result := RemoveResult{Dataset: dataset}

	repo, err := local.Repository(ctx)
	if err != nil {
		return result, err
	}
	if !repo.HasDataset(dataset) {
		return result, status.ErrDatasetNotFound.Wrapf("dataset %q not found in local repository %s", dataset, local)
	}

	datasetKey := model.GetPathToDataset(dataset)
	exists, isDir, err := local.stat(datasetKey)
	if err != nil {
		return result, err
	}
	if !exists || !isDir {
		return result, damaged(local, datasetKey, "is referenced in the repository metadata but is not a directory")
	}

	ds, err := local.Dataset(ctx, dataset)
	if err != nil {
		return result, err
	}

	if version == "" {
		return removeDataset(ctx, local, repo, ds, result, o)
	}
	return removeVersion(ctx, local, ds, version, result, o)
}

func removeDataset(ctx context.Context, local *LocalRepo, repo *model.Repository, ds *model.Dataset, result RemoveResult, o *removeOptions) (RemoveResult, error) {
	dataset := result.Dataset
	if len(ds.Versions) > 1 && !o.all {
		return result, status.ErrAmbiguousRemoval.Wrapf(
			"dataset %q contains multiple versions (%s): remove all of them to remove the entire dataset",
			dataset, strings.Join(ds.Versions, ", "))
	}

	o.l.Info("removing dataset", zap.String("dataset", dataset), zap.Int("versions", len(ds.Versions)))
	if err := local.removeAll(model.GetPathToDataset(dataset)); err != nil {
		return result, err
	}
	result.WholeDataset = true
	result.Versions = ds.Versions

	repo.RemoveDataset(dataset)
	o.l.Debug("writing repository descriptor", zap.Int("datasets", len(repo.Datasets)))
	if err := local.SaveRepository(ctx, repo); err != nil {
		o.l.Error("local repository may be inconsistent: run validate to check", zap.Error(err))
		return result, status.ErrRepositoryMayBeInconsistent.Wrap(err)
	}
	return result, nil
}

func removeVersion(ctx context.Context, local *LocalRepo, ds *model.Dataset, version string, result RemoveResult, o *removeOptions) (RemoveResult, error) {
	dataset := result.Dataset
	if !ds.HasVersion(version) {
		return result, status.ErrVersionNotFound.Wrapf("version %q not found in local dataset %q", version, dataset)
	}

	versionKey := model.GetPathToVersion(dataset, version)
	exists, isDir, err := local.stat(versionKey)
	if err != nil {
		return result, err
	}
	if !exists || !isDir {
		return result, damaged(local, versionKey, "is referenced in the dataset metadata but is not a directory")
	}

	o.l.Info("removing version", zap.String("dataset", dataset), zap.String("version", version))
	if err = local.removeAll(versionKey); err != nil {
		return result, err
	}
	result.Versions = []string{version}

	ds.RemoveVersion(version)
	o.l.Debug("writing dataset descriptor", zap.Int("versions", len(ds.Versions)))
	if err = local.SaveDataset(ctx, dataset, ds); err != nil {
		o.l.Error("local repository may be inconsistent: run validate to check", zap.Error(err))
		return result, status.ErrRepositoryMayBeInconsistent.Wrap(err)
	}
	return result, nil
}
