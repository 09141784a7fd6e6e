// Copyright © 2018 One Concern

package core

import (
	"bytes"
	"context"
	"io"
	"path"

	units "github.com/docker/go-units"
	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/fingerprint"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/oneconcern/autodataman/pkg/storage"
	storagestatus "github.com/oneconcern/autodataman/pkg/storage/status"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// GetResult reports what a Get did to the local repository
type GetResult struct {
	Dataset     string
	Version     string
	UpToDate    bool
	Overwritten bool
	NewDataset  bool
	Files       int
	Bytes       int64
}

// getRun holds the state of one Get invocation
type getRun struct {
	*getOptions
	remote *Remote
	local  *LocalRepo

	dataset       string
	version       string
	remoteDataset *model.Dataset
	remoteVersion *model.Version
	localRepo     *model.Repository
	localDataset  *model.Dataset

	isNewDataset bool
	isOverwrite  bool
	workKey      string
	result       GetResult
}

// Get synchronizes one version of a remote dataset into the local repository.
//
// Files are downloaded into the final version directory (new version) or into a staging
// directory (replaced version) and verified against their SHA-256 digest before anything
// is committed: on failure, whatever this call created is removed and pre-existing
// directories are left untouched.
//
// An identical local version is left alone unless WithForce is set. A different local
// version is only replaced when WithForce is set, otherwise status.ErrVersionConflict is returned.
func Get(ctx context.Context, remote *Remote, local *LocalRepo, specifier string, opts ...GetOption) (GetResult, error) {
	g := &getRun{
		getOptions: getOptionsWithDefaults(opts),
		remote:     remote,
		local:      local,
	}
	var err error
	g.dataset, g.version, err = ResolveSpecifier(specifier)
	if err != nil {
		return GetResult{}, err
	}
	g.result.Dataset = g.dataset

	if err = g.loadRemote(ctx); err != nil {
		return g.result, err
	}
	g.result.Version = g.version

	if err = g.loadLocal(ctx); err != nil {
		return g.result, err
	}

	upToDate, err := g.compareVersions(ctx)
	if err != nil || upToDate {
		return g.result, err
	}

	if err = g.checkRemoteFiles(ctx); err != nil {
		return g.result, err
	}
	if err = g.prepare(ctx); err != nil {
		return g.result, err
	}
	if err = g.download(ctx); err != nil {
		return g.result, g.rollback(err)
	}
	if err = g.runActions(ctx); err != nil {
		return g.result, g.rollback(err)
	}
	return g.result, g.commit(ctx)
}

func (g *getRun) loadRemote(ctx context.Context) error {
	remoteRepo, err := g.remote.Repository(ctx)
	if err != nil {
		return err
	}
	if !remoteRepo.HasDataset(g.dataset) {
		return status.ErrDatasetNotFound.Wrapf("dataset %q not found on %s", g.dataset, g.remote)
	}

	g.remoteDataset, err = g.remote.Dataset(ctx, g.dataset)
	if err != nil {
		return err
	}
	requested := g.version
	g.version, err = ResolveVersion(g.remoteDataset, g.dataset, g.version)
	if err != nil {
		return err
	}
	if requested == "" {
		g.l.Info("using default version", zap.String("dataset", g.dataset), zap.String("version", g.version))
	}
	if !g.remoteDataset.HasVersion(g.version) {
		return status.ErrVersionNotFound.Wrapf("dataset %q version %q not found on %s", g.dataset, g.version, g.remote)
	}

	g.remoteVersion, err = g.remote.Version(ctx, g.dataset, g.version)
	if err != nil {
		return err
	}
	if g.remoteVersion.Name != g.version {
		return status.ErrMalformedDescriptor.Wrapf("%s: %s: _DATA::version is %q, expected %q",
			g.remote, model.GetPathToVersionDescriptor(g.dataset, g.version), g.remoteVersion.Name, g.version)
	}
	return nil
}

func (g *getRun) loadLocal(ctx context.Context) error {
	var err error
	g.localRepo, err = g.local.Repository(ctx)
	if err != nil {
		return err
	}

	datasetKey := model.GetPathToDataset(g.dataset)
	exists, isDir, err := g.local.stat(datasetKey)
	if err != nil {
		return err
	}

	if !g.localRepo.HasDataset(g.dataset) {
		if exists {
			return damaged(g.local, datasetKey, "exists but is not referenced in the repository metadata")
		}
		g.isNewDataset = true
		g.result.NewDataset = true
		g.localDataset = model.NewDatasetFrom(g.remoteDataset)
		return nil
	}

	if !exists || !isDir {
		return damaged(g.local, datasetKey, "is referenced in the repository metadata but is not a directory")
	}
	g.localDataset, err = g.local.Dataset(ctx, g.dataset)
	return err
}

// compareVersions determines the state of the local version: absent, identical or different
func (g *getRun) compareVersions(ctx context.Context) (bool, error) {
	versionKey := model.GetPathToVersion(g.dataset, g.version)
	exists, isDir, err := g.local.stat(versionKey)
	if err != nil {
		return false, err
	}

	if !g.localDataset.HasVersion(g.version) {
		if exists {
			return false, damaged(g.local, versionKey, "exists but is not referenced in the dataset metadata")
		}
		g.workKey = versionKey
		return false, nil
	}
	if !exists || !isDir {
		return false, damaged(g.local, versionKey, "is referenced in the dataset metadata but is not a directory")
	}

	localVersion, err := g.local.Version(ctx, g.dataset, g.version)
	if err != nil {
		if !errors.Is(err, status.ErrMalformedDescriptor) && !errors.Is(err, storagestatus.ErrNotExists) {
			return false, err
		}
		// an unreadable local descriptor never matches the server's
		g.l.Warn("local version descriptor is invalid", zap.Error(err))
	}

	identical := localVersion != nil && localVersion.Equal(g.remoteVersion)
	switch {
	case identical && !g.force:
		g.l.Info("version already exists in local repository",
			zap.String("dataset", g.dataset), zap.String("version", g.version))
		g.result.UpToDate = true
		return true, nil
	case !identical:
		g.l.Debug("server copy", summarize(g.remoteVersion)...)
		if localVersion != nil {
			g.l.Debug("local copy", summarize(localVersion)...)
		}
		if !g.force {
			return false, status.ErrVersionConflict.Wrapf(
				"%s/%s exists in the local repository, but its descriptor does not match the server: "+
					"one or both copies could be corrupt. Force the download to overwrite it",
				g.dataset, g.version)
		}
		g.l.Warn("overwriting local version with server data",
			zap.String("dataset", g.dataset), zap.String("version", g.version))
	default:
		g.l.Info("overwriting local version with server data",
			zap.String("dataset", g.dataset), zap.String("version", g.version))
	}

	g.isOverwrite = true
	g.result.Overwritten = true
	g.workKey = model.GetPathToStaging(g.dataset, g.version)

	retiredKey := model.GetPathToRetired(g.dataset, g.version)
	if exists, _, err = g.local.stat(retiredKey); err != nil {
		return false, err
	}
	if exists {
		return false, damaged(g.local, retiredKey, "is left over from an interrupted replacement: remove it first")
	}
	return false, nil
}

// checkRemoteFiles fails before the local repository is modified if some file is missing on the server
func (g *getRun) checkRemoteFiles(ctx context.Context) error {
	for _, file := range g.remoteVersion.Files {
		has, err := g.remote.HasFile(ctx, g.dataset, g.version, file.Filename)
		if err != nil {
			return err
		}
		if !has {
			return storagestatus.ErrNotExists.Wrapf("%s/%s: file %q is missing on %s", g.dataset, g.version, file.Filename, g.remote)
		}
	}
	return nil
}

// prepare creates the directories to download into and persists the version descriptor
func (g *getRun) prepare(ctx context.Context) error {
	exists, _, err := g.local.stat(g.workKey)
	if err != nil {
		return err
	}
	if exists {
		return status.ErrFilesystem.Wrapf("%s already exists: remove it first", g.local.realPath(g.workKey))
	}

	if g.isNewDataset {
		if err = g.local.mkdir(model.GetPathToDataset(g.dataset)); err != nil {
			return err
		}
	}
	if err = g.local.mkdir(g.workKey); err != nil {
		return g.rollback(err)
	}

	b, err := g.remoteVersion.Marshal()
	if err != nil {
		return g.rollback(err)
	}
	key := path.Join(g.workKey, model.VersionDescriptorFile)
	g.l.Debug("writing version descriptor", zap.String("path", g.local.realPath(key)))
	if err = g.local.meta.Put(ctx, key, bytes.NewReader(b), storage.IfNotPresent); err != nil {
		return g.rollback(status.ErrFilesystem.Wrap(err))
	}
	return nil
}

func (g *getRun) download(ctx context.Context) error {
	for _, file := range g.remoteVersion.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := g.downloadFile(ctx, file)
		if err != nil {
			return err
		}
		g.result.Files++
		g.result.Bytes += n
	}
	return nil
}

func (g *getRun) downloadFile(ctx context.Context, file model.File) (int64, error) {
	g.l.Info("downloading", zap.String("file", file.Filename))

	reader, err := g.remote.Fetch(ctx, g.dataset, g.version, file.Filename)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	hasher := fingerprint.NewHash()
	counter := &countingWriter{}
	key := path.Join(g.workKey, file.Filename)
	err = g.local.data.Put(ctx, key, io.TeeReader(reader, io.MultiWriter(hasher, counter)), storage.IfNotPresent)
	if err != nil {
		return counter.n, status.ErrFilesystem.Wrap(err)
	}

	digest := fingerprint.Hex(hasher)
	if !fingerprint.Equal(digest, file.Digest) {
		return counter.n, status.ErrIntegrity.Wrapf(
			"%s/%s: file %q has SHA-256 %s, expected %s. If the local repository is inconsistent, remove %s/%s before downloading again",
			g.dataset, g.version, file.Filename, digest, file.Digest, g.dataset, g.version)
	}
	g.l.Info("verified",
		zap.String("file", file.Filename),
		zap.String("size", units.HumanSize(float64(counter.n))),
		zap.String("sha256", digest),
	)
	return counter.n, nil
}

func (g *getRun) runActions(ctx context.Context) error {
	dir := g.local.realPath(g.workKey)
	for _, file := range g.remoteVersion.Files {
		if !file.HasAction() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			command string
			ok      bool
		)
		if g.commands != nil {
			command, ok = g.commands.ActionCommand(file.Format, file.OnDownload)
		}
		if !ok {
			return status.ErrPostDownloadAction.Wrapf("%s/%s: no command configured for format %q and action %q (file %q)",
				g.dataset, g.version, file.Format, file.OnDownload, file.Filename)
		}

		g.l.Info("executing", zap.String("command", command), zap.String("file", file.Filename))
		if err := g.runner.Run(ctx, dir, command, file.Filename); err != nil {
			return status.ErrPostDownloadAction.Wrapf("%s/%s: file %q: %v", g.dataset, g.version, file.Filename, err)
		}
		if err := g.local.data.Delete(ctx, path.Join(g.workKey, file.Filename)); err != nil {
			return status.ErrPostDownloadAction.Wrapf("%s/%s: removing %q: %v", g.dataset, g.version, file.Filename, err)
		}
	}
	return nil
}

// rollback removes whatever this invocation created. The original error is returned,
// combined with any cleanup failure.
func (g *getRun) rollback(err error) error {
	key := g.workKey
	if g.isNewDataset {
		key = model.GetPathToDataset(g.dataset)
	}
	g.l.Debug("rolling back", zap.String("path", g.local.realPath(key)), zap.Error(err))
	if errCleanup := g.local.removeAll(key); errCleanup != nil {
		g.l.Error("could not clean up after failure", zap.String("path", g.local.realPath(key)), zap.Error(errCleanup))
		return multierr.Append(err, errCleanup)
	}
	return err
}

// commit moves the downloaded version into place and updates the metadata.
//
// Once the version directory is in place, failures are reported as status.ErrRepositoryMayBeInconsistent.
func (g *getRun) commit(ctx context.Context) error {
	if g.isOverwrite {
		if err := g.swap(); err != nil {
			if errors.Is(err, status.ErrRepositoryMayBeInconsistent) {
				// both copies are kept for manual repair
				g.l.Error("local repository may be inconsistent: run validate to check", zap.Error(err))
				return err
			}
			return g.rollback(err)
		}
	}

	if err := g.persist(ctx); err != nil {
		g.l.Error("local repository may be inconsistent: run validate to check", zap.Error(err))
		return status.ErrRepositoryMayBeInconsistent.Wrap(err)
	}
	g.l.Info("version retrieved",
		zap.String("dataset", g.dataset),
		zap.String("version", g.version),
		zap.Int("files", g.result.Files),
		zap.String("size", units.HumanSize(float64(g.result.Bytes))),
	)
	return nil
}

// swap replaces the live version directory by the staging directory
func (g *getRun) swap() error {
	live := model.GetPathToVersion(g.dataset, g.version)
	retired := model.GetPathToRetired(g.dataset, g.version)

	if err := g.local.rename(live, retired); err != nil {
		return err
	}
	if err := g.local.rename(g.workKey, live); err != nil {
		if errRestore := g.local.rename(retired, live); errRestore != nil {
			return status.ErrRepositoryMayBeInconsistent.Wrapf("%s is missing, the new and replaced copies are left in %s and %s: %v",
				g.local.realPath(live), g.local.realPath(g.workKey), g.local.realPath(retired), multierr.Append(err, errRestore))
		}
		return err
	}
	g.workKey = live

	if err := g.local.removeAll(retired); err != nil {
		g.l.Warn("could not remove replaced version", zap.String("path", g.local.realPath(retired)), zap.Error(err))
	}
	return nil
}

func (g *getRun) persist(ctx context.Context) error {
	if g.isOverwrite {
		return nil
	}
	g.localDataset.AddVersion(g.version)
	g.l.Debug("writing dataset descriptor", zap.Int("versions", len(g.localDataset.Versions)))
	if err := g.local.SaveDataset(ctx, g.dataset, g.localDataset); err != nil {
		return err
	}
	if !g.isNewDataset {
		return nil
	}
	g.localRepo.AddDataset(g.dataset)
	g.l.Debug("writing repository descriptor", zap.Int("datasets", len(g.localRepo.Datasets)))
	return g.local.SaveRepository(ctx, g.localRepo)
}

func damaged(local *LocalRepo, key, reason string) error {
	return status.ErrFilesystem.Wrapf("damaged local repository: %s %s. Run validate to check the repository",
		local.realPath(key), reason)
}

func summarize(v *model.Version) []zap.Field {
	files := make([]string, 0, len(v.Files))
	for _, f := range v.Files {
		files = append(files, f.Filename+" "+f.Digest)
	}
	return []zap.Field{
		zap.String("version", v.Name),
		zap.String("date", v.Date),
		zap.String("source", v.Source),
		zap.Strings("files", files),
	}
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
