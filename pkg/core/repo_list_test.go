package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestAvail(t *testing.T) {
	defer goleak.VerifyNone(t)
	remote := newRemoteFixture(t)

	datasets, err := Avail(context.Background(), remote.remote())
	require.NoError(t, err)
	assert.Empty(t, datasets)

	remote.publish("era5", "v1", randomFile("a.bin"))
	remote.publish("gfs", "v1", randomFile("a.bin"))
	datasets, err = Avail(context.Background(), remote.remote())
	require.NoError(t, err)
	assert.Equal(t, []string{"era5", "gfs"}, datasets)

	empty, err := OpenRemote(t.TempDir())
	require.NoError(t, err)
	_, err = Avail(context.Background(), empty)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	local := localWithVersions(t, "v1", "v2")

	listing, err := List(ctx, local)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "era5", listing[0].Name)
	require.NoError(t, listing[0].Err)
	assert.Equal(t, []string{"v1", "v2"}, listing[0].Dataset.Versions)

	// a dataset with a broken descriptor is still listed
	require.NoError(t, os.WriteFile(filepath.Join(local.Root(), "era5", model.DatasetDescriptorFile), []byte("{"), 0600))
	listing, err = List(ctx, local)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	require.Error(t, listing[0].Err)
	assert.True(t, errors.Is(listing[0].Err, status.ErrMalformedDescriptor))
	assert.Nil(t, listing[0].Dataset)
}

func TestInfo(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	remote := newRemoteFixture(t)
	remote.publish("era5", "v1", randomFile("a.bin"))
	remote.publish("era5", "v2", randomFile("a.bin"))
	remote.publish("gfs", "v1", randomFile("a.bin"))
	local := newLocalFixture(t)
	_, err := Get(ctx, remote.remote(), local, "era5/v2")
	require.NoError(t, err)

	info, err := Info(ctx, remote.remote(), local, "era5")
	require.NoError(t, err)
	require.NotNil(t, info.Remote)
	require.NotNil(t, info.Local)
	assert.Equal(t, []string{"v1", "v2"}, info.Remote.Versions)
	assert.Equal(t, []string{"v2"}, info.Local.Versions)
	assert.Equal(t, "v1", info.Local.Default)

	info, err = Info(ctx, remote.remote(), local, "gfs")
	require.NoError(t, err)
	assert.NotNil(t, info.Remote)
	assert.Nil(t, info.Local)

	info, err = Info(ctx, nil, local, "era5")
	require.NoError(t, err)
	assert.Nil(t, info.Remote)
	assert.NotNil(t, info.Local)

	info, err = Info(ctx, remote.remote(), nil, "unknown")
	require.NoError(t, err)
	assert.Nil(t, info.Remote)
	assert.Nil(t, info.Local)

	_, err = Info(ctx, remote.remote(), local, "../era5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMalformedSpecifier))
}

func TestInfoPartialFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	local := localWithVersions(t, "v1")

	unreachable, err := OpenRemote(filepath.Join(t.TempDir(), "nowhere"))
	require.NoError(t, err)

	info, err := Info(ctx, unreachable, local, "era5")
	require.Error(t, err)
	assert.Error(t, info.RemoteErr)
	assert.NoError(t, info.LocalErr)
	assert.NotNil(t, info.Local, "the local side is reported even when the remote side fails")
}
