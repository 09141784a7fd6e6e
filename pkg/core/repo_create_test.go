package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestInitRepo(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "local")

	local, err := InitRepo(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".", "repo.txt"}, tree(t, local.Root()))
	assert.JSONEq(t,
		`{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":[]}`,
		string(readLocal(t, local, "repo.txt")),
	)
	reopened, err := OpenLocalRepo(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, local.Root(), reopened.Root())

	_, err = InitRepo(ctx, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRepoExists))
}

func TestInitRepoErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	_, err := InitRepo(ctx, filepath.Join(t.TempDir(), "missing", "local"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrFilesystem))

	existing := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0600))
	_, err = InitRepo(ctx, existing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRepoExists))
}

func TestOpenLocalRepo(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	t.Run("missing directory", func(t *testing.T) {
		_, err := OpenLocalRepo(ctx, filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotARepo))
	})

	t.Run("missing descriptor", func(t *testing.T) {
		_, err := OpenLocalRepo(ctx, t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotARepo))
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "repo.txt"), []byte(`{"_REPO":{"type":"autodataman"}}`), 0600))
		_, err := OpenLocalRepo(ctx, dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrMalformedDescriptor))
		assert.Contains(t, err.Error(), "repo.txt")
		assert.Contains(t, err.Error(), "_REPO::version")
	})

	t.Run("legacy descriptor", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "repo.json"),
			[]byte(`{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":["era5"]}`), 0600))
		local, err := OpenLocalRepo(ctx, dir)
		require.NoError(t, err)
		repo, err := local.Repository(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"era5"}, repo.Datasets)
	})
}
