package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMirrorLifecycle walks through the typical life of a local mirror served over http
func TestMirrorLifecycle(t *testing.T) {
	ctx := context.Background()
	published := newRemoteFixture(t)
	published.publish("era5", "2018", randomFile("t2m.nc"), randomFile("u10.nc"))
	published.publish("era5", "2019", randomFile("t2m.nc"))
	published.publish("gfs", "0p25", randomFile("gfs.grib2"))

	server := httptest.NewServer(http.FileServer(http.Dir(published.dir)))
	defer server.Close()
	remote, err := OpenRemote(server.URL)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "mirror")
	_, err = InitRepo(ctx, dir)
	require.NoError(t, err)
	local, err := OpenLocalRepo(ctx, dir)
	require.NoError(t, err)

	datasets, err := Avail(ctx, remote)
	require.NoError(t, err)
	assert.Equal(t, []string{"era5", "gfs"}, datasets)

	res, err := Get(ctx, remote, local, "era5")
	require.NoError(t, err)
	assert.Equal(t, "2018", res.Version)
	assert.Equal(t, 2, res.Files)

	_, err = Get(ctx, remote, local, "era5/2019")
	require.NoError(t, err)
	_, err = Get(ctx, remote, local, "gfs")
	require.NoError(t, err)

	listing, err := List(ctx, local)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, []string{"2018", "2019"}, listing[0].Dataset.Versions)
	assert.Equal(t, []string{"0p25"}, listing[1].Dataset.Versions)

	report, err := Validate(ctx, local, WithVerifyDigests(true))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 4, report.Files)

	res, err = Get(ctx, remote, local, "era5/2019")
	require.NoError(t, err)
	assert.True(t, res.UpToDate)

	_, err = Remove(ctx, local, "era5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrAmbiguousRemoval))

	_, err = Remove(ctx, local, "era5/2018")
	require.NoError(t, err)
	_, err = Remove(ctx, local, "era5")
	require.NoError(t, err)

	info, err := Info(ctx, remote, local, "era5")
	require.NoError(t, err)
	assert.NotNil(t, info.Remote)
	assert.Nil(t, info.Local)

	assert.Equal(t, []string{
		".",
		"gfs",
		"gfs/0p25",
		"gfs/0p25/data.txt",
		"gfs/0p25/gfs.grib2",
		"gfs/dataset.txt",
		"repo.txt",
	}, tree(t, local.Root()))
}
