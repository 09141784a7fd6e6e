package core

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'a.tgz'`, shellQuote("a.tgz"))
	assert.Equal(t, `'it'\''s here.tgz'`, shellQuote("it's here.tgz"))
	assert.Equal(t, `'$(rm -rf x)'`, shellQuote("$(rm -rf x)"))
}

func TestShellActions(t *testing.T) {
	dir := t.TempDir()
	name := "it's a file.txt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	ctx := context.Background()

	require.NoError(t, ShellActions{}.Run(ctx, dir, "test -f", name))

	err := ShellActions{}.Run(ctx, dir, "test -f", "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test -f")

	err = ShellActions{}.Run(ctx, dir, "cat", "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

// makeTarball builds a gzipped tar archive holding the given files
func makeTarball(t testing.TB, files map[string]string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestGetExtractsArchive(t *testing.T) {
	ctx := context.Background()
	remote := newRemoteFixture(t)
	remote.publish("era5", "v1", fixtureFile{
		name:    "grid.tgz",
		content: makeTarball(t, map[string]string{"grid.csv": "lat,lon\n"}),
		format:  "tgz",
		action:  "open",
	})
	local := newLocalFixture(t)

	_, err := Get(ctx, remote.remote(), local, "era5/v1", WithCommands(commandMap{"tgz_open_command": "tar -xzf"}))
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(local.Root(), "era5", "v1", "grid.tgz"))
	assert.Equal(t, "lat,lon\n", string(readLocal(t, local, "era5/v1/grid.csv")))
}
