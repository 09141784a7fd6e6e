// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new local file system backed storage model
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs: fs,
	}
}

// NewReadOnly creates a read-only storage for a repository published in a local directory
func NewReadOnly(dir string) storage.Store {
	return &localFS{
		fs:       afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)),
		name:     "localfs-readonly@" + dir,
		readOnly: true,
	}
}

type localFS struct {
	fs       afero.Fs
	name     string
	readOnly bool
}

func (l *localFS) Has(_ context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists.Wrapf("%s: %s", l, key)
	}
	return l.fs.Open(key)
}

func (l *localFS) ensureDir(key string) error {
	if dir := path.Dir(key); dir != "." && dir != "/" {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("ensuring directories for %q: %w", key, err)
		}
	}
	return nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if l.readOnly {
		return status.ErrNotSupported.Wrapf("%s is read-only", l)
	}
	if err := l.ensureDir(key); err != nil {
		return err
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}
	target, err := l.fs.OpenFile(key, flag, 0644)
	if err != nil {
		if os.IsExist(err) {
			return status.ErrExists.Wrapf("%s: %s", l, key)
		}
		return fmt.Errorf("create record for %q: %w", key, err)
	}
	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %w", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(_ context.Context, key string) error {
	if l.readOnly {
		return status.ErrNotSupported.Wrapf("%s is read-only", l)
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (l *localFS) String() string {
	if l.name != "" {
		return l.name
	}
	return describe("localfs", l.fs)
}

func describe(name string, fs afero.Fs) string {
	switch typed := fs.(type) {
	case *afero.BasePathFs:
		pp, err := typed.RealPath("")
		if err != nil {
			return name
		}
		return name + "@" + pp
	default:
		return name
	}
}
