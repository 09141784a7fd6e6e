package localfs

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/status"
	"github.com/spf13/afero"
)

// tempPrefix prefixes files being written by an atomic Put, next to their final location
const tempPrefix = ".put-stage-"

// NewAtomic creates a local storage where Put() is atomic.
//
// Objects are written to a temporary file in the target directory, then Rename()d into place:
// readers either see the previous object or the new one, never a partial write.
// This relies on the atomicity of afero.Fs.Rename() on the underlying file system.
func NewAtomic(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFSAtomic{
		storeImpl: localFS{fs: fs},
	}
}

type localFSAtomic struct {
	storeImpl localFS
}

func (l *localFSAtomic) Has(ctx context.Context, key string) (bool, error) {
	return l.storeImpl.Has(ctx, key)
}

func (l *localFSAtomic) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return l.storeImpl.Get(ctx, key)
}

func (l *localFSAtomic) Delete(ctx context.Context, key string) error {
	return l.storeImpl.Delete(ctx, key)
}

// Put is the only part of the Store interface not delegated to the plain local store
func (l *localFSAtomic) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if exclusive {
		has, err := l.storeImpl.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists.Wrapf("%s: %s", l, key)
		}
	}
	if err := l.storeImpl.ensureDir(key); err != nil {
		return err
	}

	fs := l.storeImpl.fs
	staged, err := afero.TempFile(fs, path.Dir(key), tempPrefix+path.Base(key)+"-")
	if err != nil {
		return fmt.Errorf("create staging record for %q: %w", key, err)
	}
	stagedKey := staged.Name()

	_, err = io.Copy(staged, source)
	if err == nil {
		err = staged.Sync()
	}
	if errClose := staged.Close(); err == nil {
		err = errClose
	}
	if err == nil {
		err = fs.Chmod(stagedKey, 0644)
	}
	if err == nil {
		err = fs.Rename(stagedKey, key)
	}
	if err != nil {
		_ = fs.Remove(stagedKey)
		return fmt.Errorf("write record for %q: %w", key, err)
	}
	return nil
}

func (l *localFSAtomic) String() string {
	return describe("localfs-atomic", l.storeImpl.fs)
}
