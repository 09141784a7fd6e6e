package core

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/localfs"
	storagestatus "github.com/oneconcern/autodataman/pkg/storage/status"
	"github.com/spf13/afero"
)

// LocalRepo is a local mirror of some remote repository.
//
// Descriptors are written atomically. Data files are written directly, since they
// always land in a version directory which is not yet referenced by the metadata.
type LocalRepo struct {
	root string
	fs   afero.Fs
	meta storage.Store
	data storage.Store
}

func newLocalRepo(dir string) (*LocalRepo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, status.ErrFilesystem.Wrap(err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.ErrNotARepo.Wrapf("%s: no such directory", dir)
		}
		return nil, status.ErrFilesystem.Wrap(err)
	}
	fs := afero.NewBasePathFs(afero.NewOsFs(), root)
	return &LocalRepo{
		root: root,
		fs:   fs,
		meta: localfs.NewAtomic(fs),
		data: localfs.New(fs),
	}, nil
}

// OpenLocalRepo opens an existing local repository
func OpenLocalRepo(ctx context.Context, dir string) (*LocalRepo, error) {
	r, err := newLocalRepo(dir)
	if err != nil {
		return nil, err
	}
	if _, err = r.Repository(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Root of the repository, as an absolute path with symlinks resolved
func (r *LocalRepo) Root() string {
	return r.root
}

func (r *LocalRepo) String() string {
	return r.root
}

func (r *LocalRepo) read(ctx context.Context, key string) ([]byte, error) {
	return storage.ReadAllWithFallback(ctx, r.meta, key, model.LegacyDescriptorPath(key))
}

func (r *LocalRepo) write(ctx context.Context, key string, descriptor interface{ Marshal() ([]byte, error) }) error {
	b, err := descriptor.Marshal()
	if err != nil {
		return err
	}
	return r.meta.Put(ctx, key, bytes.NewReader(b), storage.OverWrite)
}

// Repository loads the repository descriptor
func (r *LocalRepo) Repository(ctx context.Context) (*model.Repository, error) {
	b, err := r.read(ctx, model.GetPathToRepoDescriptor())
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNotARepo.Wrapf("%s: missing %s", r.root, model.RepoDescriptorFile)
		}
		return nil, status.ErrFilesystem.Wrap(err)
	}
	repo, err := model.LoadRepository(b)
	if err != nil {
		return nil, qualifyLocal(err, r.root, model.RepoDescriptorFile)
	}
	return repo, nil
}

// Dataset loads the descriptor of a local dataset
func (r *LocalRepo) Dataset(ctx context.Context, dataset string) (*model.Dataset, error) {
	key := model.GetPathToDatasetDescriptor(dataset)
	b, err := r.read(ctx, key)
	if err != nil {
		return nil, status.ErrFilesystem.Wrap(err)
	}
	ds, err := model.LoadDataset(b)
	if err != nil {
		return nil, qualifyLocal(err, r.root, key)
	}
	return ds, nil
}

// Version loads the descriptor of a local version
func (r *LocalRepo) Version(ctx context.Context, dataset, version string) (*model.Version, error) {
	key := model.GetPathToVersionDescriptor(dataset, version)
	b, err := r.read(ctx, key)
	if err != nil {
		return nil, status.ErrFilesystem.Wrap(err)
	}
	v, err := model.LoadVersion(b)
	if err != nil {
		return nil, qualifyLocal(err, r.root, key)
	}
	return v, nil
}

// SaveRepository persists the repository descriptor
func (r *LocalRepo) SaveRepository(ctx context.Context, repo *model.Repository) error {
	return r.write(ctx, model.GetPathToRepoDescriptor(), repo)
}

// SaveDataset persists the descriptor of a dataset
func (r *LocalRepo) SaveDataset(ctx context.Context, dataset string, ds *model.Dataset) error {
	return r.write(ctx, model.GetPathToDatasetDescriptor(dataset), ds)
}

// realPath yields the path of some key on the local file system
func (r *LocalRepo) realPath(key string) string {
	return filepath.Join(r.root, filepath.FromSlash(key))
}

// stat tells if some key exists and whether it is a directory
func (r *LocalRepo) stat(key string) (exists bool, isDir bool, err error) {
	fi, err := r.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, status.ErrFilesystem.Wrap(err)
	}
	return true, fi.IsDir(), nil
}

// ensureContained checks that a key designates a path strictly within the repository root,
// once symbolic links are resolved.
func (r *LocalRepo) ensureContained(key string) (string, error) {
	target := r.realPath(key)
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	rel, err := filepath.Rel(r.root, target)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", status.ErrUnsafeDeletePath.Wrapf("%q is not strictly within repository %q", target, r.root)
	}
	return target, nil
}

// removeAll removes a directory tree within the repository
func (r *LocalRepo) removeAll(key string) error {
	if _, err := r.ensureContained(key); err != nil {
		return err
	}
	if err := r.fs.RemoveAll(key); err != nil {
		return status.ErrFilesystem.Wrap(err)
	}
	return nil
}

func (r *LocalRepo) mkdir(key string) error {
	if err := r.fs.Mkdir(key, 0755); err != nil {
		return status.ErrFilesystem.Wrap(err)
	}
	return nil
}

func (r *LocalRepo) rename(from, to string) error {
	if err := r.fs.Rename(from, to); err != nil {
		return status.ErrFilesystem.Wrap(err)
	}
	return nil
}

// subdirs lists the directories found under some key
func (r *LocalRepo) subdirs(key string) ([]string, error) {
	infos, err := afero.ReadDir(r.fs, key)
	if err != nil {
		return nil, status.ErrFilesystem.Wrap(err)
	}
	var dirs []string
	for _, fi := range infos {
		if fi.IsDir() {
			dirs = append(dirs, fi.Name())
		}
	}
	return dirs, nil
}

// qualifyLocal prefixes the error reported by a descriptor with its location
func qualifyLocal(err error, root, key string) error {
	return qualifyDescriptor(err, path.Join(filepath.ToSlash(root), key))
}

func qualifyDescriptor(err error, location string) error {
	if !errors.Is(err, status.ErrMalformedDescriptor) {
		return err
	}
	cause := errors.Unwrap(err)
	if cause == nil {
		cause = err
	}
	return status.ErrMalformedDescriptor.Wrapf("%s: %v", location, cause)
}
