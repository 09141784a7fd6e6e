package httpstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer(t testing.TB) *httptest.Server {
	objects := map[string]string{
		"/pub/repo.json":           `{"legacy":true}`,
		"/pub/era5/dataset.txt":    `{"dataset":true}`,
		"/pub/era5/v1/my file.nc": "content",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pub/secret":
			w.WriteHeader(http.StatusForbidden)
			return
		case "/pub/login":
			w.WriteHeader(http.StatusUnauthorized)
			return
		case "/pub/broken":
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		content, ok := objects[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew(t *testing.T) {
	_, err := New("ftp://example.com/repo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))

	_, err = New("http:///repo")
	require.Error(t, err)

	s, err := New("https://example.com/repo/?x=1", Logger(zap.NewNop()), Client(http.DefaultClient))
	require.NoError(t, err)
	assert.Equal(t, "http@https://example.com/repo/", s.String())

	assert.True(t, IsURL("HTTPS://example.com"))
	assert.False(t, IsURL("/srv/repo"))
	assert.False(t, IsURL("file:///srv/repo"))
}

func TestGet(t *testing.T) {
	server := testServer(t)
	s, err := New(server.URL + "/pub/")
	require.NoError(t, err)
	ctx := context.Background()

	b, err := storage.ReadAll(ctx, s, "era5/v1/my file.nc")
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))

	b, err = storage.ReadAllWithFallback(ctx, s, "repo.txt", "repo.json")
	require.NoError(t, err)
	assert.Equal(t, `{"legacy":true}`, string(b))

	_, err = storage.ReadAllWithFallback(ctx, s, "era5/v2/data.txt", "era5/v2/data.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
	assert.Contains(t, err.Error(), "era5/v2/data.txt")

	for key, sentinel := range map[string]error{
		"secret":  status.ErrForbidden,
		"login":   status.ErrUnauthorized,
		"broken":  status.ErrStorageAPI,
		"missing": status.ErrNotExists,
	} {
		_, err = s.Get(ctx, key)
		require.Error(t, err)
		assert.Truef(t, errors.Is(err, sentinel), "unexpected error for %s: %v", key, err)
	}
}

func TestHas(t *testing.T) {
	server := testServer(t)
	s, err := New(server.URL + "/pub")
	require.NoError(t, err)
	ctx := context.Background()

	has, err := s.Has(ctx, "era5/dataset.txt")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.Has(ctx, "gpw/dataset.txt")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.Has(ctx, "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrForbidden))
}

func TestReadOnly(t *testing.T) {
	s, err := New("http://example.com")
	require.NoError(t, err)
	err = s.Put(context.Background(), "repo.txt", strings.NewReader("x"), storage.OverWrite)
	assert.True(t, errors.Is(err, status.ErrNotSupported))
	err = s.Delete(context.Background(), "repo.txt")
	assert.True(t, errors.Is(err, status.ErrNotSupported))
}

func TestCanceledContext(t *testing.T) {
	server := testServer(t)
	s, err := New(server.URL + "/pub")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Get(ctx, "era5/dataset.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
