package model

import (
	"testing"

	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRepository(t *testing.T) {
	repo, err := LoadRepository([]byte(`{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":["era5","gpw"]}`))
	require.NoError(t, err)
	assert.Equal(t, RepoType, repo.Type)
	assert.Equal(t, "1", repo.Version)
	assert.Equal(t, []string{"era5", "gpw"}, repo.Datasets)
	assert.True(t, repo.HasDataset("gpw"))
	assert.False(t, repo.HasDataset("modis"))
}

func TestLoadRepositoryErrors(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		input    string
		expected string
	}{
		{name: "not json", input: `{"_REPO":`, expected: "invalid JSON"},
		{name: "not an object", input: `["a"]`, expected: "invalid JSON"},
		{name: "null", input: `null`, expected: "must be a JSON object"},
		{name: "missing header", input: `{"_DATASETS":[]}`, expected: "missing field _REPO"},
		{name: "missing type", input: `{"_REPO":{"version":"1"},"_DATASETS":[]}`, expected: "missing field _REPO::type"},
		{name: "wrong type", input: `{"_REPO":{"type":"other","version":"1"},"_DATASETS":[]}`, expected: `_REPO::type must be "autodataman"`},
		{name: "mistyped version", input: `{"_REPO":{"type":"autodataman","version":1},"_DATASETS":[]}`, expected: "field _REPO::version must be a string"},
		{name: "missing datasets", input: `{"_REPO":{"type":"autodataman","version":"1"}}`, expected: "missing field _DATASETS"},
		{name: "mistyped datasets", input: `{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":{}}`, expected: "field _DATASETS must be an array"},
		{name: "mistyped dataset", input: `{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":["a",2]}`, expected: "field _DATASETS[1] must be a string"},
		{name: "duplicate dataset", input: `{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":["a","a"]}`, expected: "duplicate name"},
		{name: "path in dataset", input: `{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":["../etc"]}`, expected: "path separator"},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			_, err := LoadRepository([]byte(fixture.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDescriptor))
			assert.Contains(t, err.Error(), fixture.expected)
		})
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository()
	b, err := repo.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"_REPO":{"type":"autodataman","version":"1"},"_DATASETS":[]}`, string(b))

	require.True(t, repo.AddDataset("era5"))
	require.False(t, repo.AddDataset("era5"))
	require.True(t, repo.AddDataset("gpw"))

	b, err = repo.Marshal()
	require.NoError(t, err)
	reloaded, err := LoadRepository(b)
	require.NoError(t, err)
	assert.Equal(t, repo, reloaded)

	require.True(t, reloaded.RemoveDataset("era5"))
	require.False(t, reloaded.RemoveDataset("era5"))
	assert.Equal(t, []string{"gpw"}, reloaded.Datasets)
	assert.Equal(t, []string{"era5", "gpw"}, repo.Datasets, "removal must not alias the original slice")
}
