// Package fingerprint computes the SHA-256 digests used to verify downloaded files.
package fingerprint

import (
	"encoding/hex"
	"hash"
	"io"
	"strings"

	units "github.com/docker/go-units"
	sha256 "github.com/minio/sha256-simd"
	"github.com/spf13/afero"
)

// Option for a Maker
type Option func(*Maker)

// withBufferSize sets the size of the read buffer used when hashing
func withBufferSize(sz int) Option {
	return func(m *Maker) {
		if sz > 0 {
			m.bufferSize = sz
		}
	}
}

// Fs sets the filesystem used to open files in Process
func Fs(fs afero.Fs) Option {
	return func(m *Maker) {
		if fs != nil {
			m.fs = fs
		}
	}
}

// New builds a digest maker
func New(opts ...Option) *Maker {
	m := &Maker{
		bufferSize: 1 * units.MiB,
		fs:         afero.NewOsFs(),
	}

	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker knows how to compute the hex-encoded SHA-256 digest of a stream or a file
type Maker struct {
	bufferSize int
	fs         afero.Fs
}

// NewHash returns a fresh SHA-256 hash, e.g. to compute a digest while copying a stream
func NewHash() hash.Hash {
	return sha256.New()
}

// Hex encodes the sum of a hash as a lower-case hex string
func Hex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Sum consumes a reader and returns its digest and the number of bytes read
func (m *Maker) Sum(r io.Reader) (string, int64, error) {
	h := NewHash()
	n, err := io.CopyBuffer(h, r, make([]byte, m.bufferSize))
	if err != nil {
		return "", n, err
	}
	return Hex(h), n, nil
}

// Process computes the digest of a file
func (m *Maker) Process(path string) (string, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	digest, _, err := m.Sum(f)
	return digest, err
}

// Equal compares two hex digests, regardless of case
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
