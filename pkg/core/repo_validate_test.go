package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func problems(report ValidationReport) map[string]string {
	res := make(map[string]string, len(report.Issues))
	for _, issue := range report.Issues {
		res[issue.Path] = issue.Problem
	}
	return res
}

func TestValidateClean(t *testing.T) {
	defer goleak.VerifyNone(t)
	local := localWithVersions(t, "v1", "v2")
	before := snapshot(t, local.Root())

	report, err := Validate(context.Background(), local, WithVerifyDigests(true))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Datasets)
	assert.Equal(t, 2, report.Versions)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, before, snapshot(t, local.Root()))
}

func TestValidateIssues(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	local := localWithVersions(t, "v1", "v2", "v3")
	root := local.Root()

	require.NoError(t, os.Mkdir(filepath.Join(root, "stray"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "era5", "v1.part"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "era5", "v2.old"), 0755))
	require.NoError(t, os.Remove(filepath.Join(root, "era5", "v1", "a.bin")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "era5", "v2", "a.bin"), []byte("corrupt"), 0600))
	require.NoError(t, os.RemoveAll(filepath.Join(root, "era5", "v3")))
	before := snapshot(t, root)

	t.Run("without digests", func(t *testing.T) {
		report, err := Validate(ctx, local)
		require.NoError(t, err)
		assert.False(t, report.OK())

		found := problems(report)
		assert.Len(t, found, 5)
		assert.Contains(t, found, filepath.Join(root, "stray"))
		assert.Contains(t, found[filepath.Join(root, "era5", "v1.part")], "staging")
		assert.Contains(t, found[filepath.Join(root, "era5", "v2.old")], "replacement")
		assert.Contains(t, found[filepath.Join(root, "era5", "v1", "a.bin")], "missing")
		assert.Contains(t, found[filepath.Join(root, "era5", "v3")], "missing")
	})

	t.Run("with digests", func(t *testing.T) {
		report, err := Validate(ctx, local, WithVerifyDigests(true))
		require.NoError(t, err)
		found := problems(report)
		assert.Len(t, found, 6)
		assert.Contains(t, found[filepath.Join(root, "era5", "v2", "a.bin")], "does not match")
	})

	assert.Equal(t, before, snapshot(t, root), "validate never modifies the repository")
}

func TestValidateBrokenDescriptors(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	local := localWithVersions(t, "v1")
	root := local.Root()

	require.NoError(t, os.WriteFile(filepath.Join(root, "era5", "v1", model.VersionDescriptorFile), []byte(`{"_DATA":{}}`), 0600))
	report, err := Validate(ctx, local)
	require.NoError(t, err)
	found := problems(report)
	require.Len(t, found, 1)
	assert.Contains(t, found[filepath.Join(root, "era5", "v1", model.VersionDescriptorFile)], "cannot load")

	require.NoError(t, os.WriteFile(filepath.Join(root, "era5", model.DatasetDescriptorFile), []byte(`[]`), 0600))
	report, err = Validate(ctx, local)
	require.NoError(t, err)
	found = problems(report)
	require.Len(t, found, 1)
	assert.Contains(t, found[filepath.Join(root, "era5", model.DatasetDescriptorFile)], "cannot load")
}

func TestValidateSkipsProcessedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	remote := newRemoteFixture(t)
	remote.publish("era5", "v1", fixtureFile{name: "grid.tgz", content: []byte("tgz"), format: "tgz", action: "open"})
	local := newLocalFixture(t)

	_, err := Get(ctx, remote.remote(), local, "era5/v1",
		WithCommands(commandMap{"tgz_open_command": "tar -xzf"}),
		WithActionRunner(&fakeRunner{}),
	)
	require.NoError(t, err)

	report, err := Validate(ctx, local, WithVerifyDigests(true))
	require.NoError(t, err)
	assert.True(t, report.OK(), "issues: %v", report.Issues)
	assert.Zero(t, report.Files)
}
