package core

import (
	"context"
	"os"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// InitRepo creates a new, empty local repository.
//
// The directory must not exist. Its parent must exist.
func InitRepo(ctx context.Context, dir string) (*LocalRepo, error) {
	fs := afero.NewOsFs()
	if _, err := fs.Stat(dir); err == nil {
		return nil, status.ErrRepoExists.Wrapf("unable to create directory %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, status.ErrFilesystem.Wrap(err)
	}
	if err := fs.Mkdir(dir, 0755); err != nil {
		return nil, status.ErrFilesystem.Wrapf("unable to create directory %s: %v", dir, err)
	}

	r, err := newLocalRepo(dir)
	if err == nil {
		err = r.SaveRepository(ctx, model.NewRepository())
	}
	if err != nil {
		if errCleanup := fs.RemoveAll(dir); errCleanup != nil {
			err = multierr.Append(err, errCleanup)
		}
		return nil, status.ErrFilesystem.Wrapf("could not create %s: %v", model.RepoDescriptorFile, err)
	}
	return r, nil
}
