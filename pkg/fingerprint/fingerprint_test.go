package fingerprint

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oneconcern/autodataman/internal/rand"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// sha256("test")
	testDigest = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	// sha256("")
	emptyDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func TestSum(t *testing.T) {
	m := New()
	digest, n, err := m.Sum(strings.NewReader("test"))
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest)
	assert.Equal(t, int64(4), n)

	digest, n, err = m.Sum(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, emptyDigest, digest)
	assert.Zero(t, n)
}

func TestSumBufferSizeIndependent(t *testing.T) {
	payload := rand.Bytes(100 * 1024)
	small, _, err := New(withBufferSize(7)).Sum(bytes.NewReader(payload))
	require.NoError(t, err)
	large, _, err := New().Sum(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, large, small)

	h := NewHash()
	_, _ = h.Write(payload)
	assert.Equal(t, large, Hex(h))
}

func TestProcess(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/test.txt", []byte("test"), 0644))

	m := New(Fs(fs))
	digest, err := m.Process("/data/test.txt")
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest)

	_, err = m.Process("/data/missing.txt")
	require.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(testDigest, strings.ToUpper(testDigest)))
	assert.True(t, Equal(testDigest+"\n", testDigest))
	assert.False(t, Equal(testDigest, emptyDigest))
}
