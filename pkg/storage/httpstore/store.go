// Copyright © 2018 One Concern

// Package httpstore implements a read-only storage.Store for repositories published by a web server.
package httpstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	units "github.com/docker/go-units"
	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/status"
	"go.uber.org/zap"
)

type httpStore struct {
	base   *url.URL
	client *http.Client
	l      *zap.Logger
}

// New builds a store fetching objects relative to some http:// or https:// base URL
func New(baseURL string, opts ...Option) (storage.Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, status.ErrInvalidResource.Wrap(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, status.ErrInvalidResource.Wrapf("unsupported scheme in %q", baseURL)
	}
	if u.Host == "" {
		return nil, status.ErrInvalidResource.Wrapf("missing host in %q", baseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	s := &httpStore{
		base:   u,
		client: http.DefaultClient,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s, nil
}

func (s *httpStore) String() string {
	return "http@" + s.base.String()
}

func (s *httpStore) urlFor(key string) string {
	u := *s.base
	u.Path = path.Join("/", s.base.Path, key)
	u.RawPath = ""
	return u.String()
}

func (s *httpStore) do(ctx context.Context, method, key string) (*http.Response, error) {
	target := s.urlFor(key)
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, status.ErrInvalidResource.Wrap(err)
	}
	s.l.Debug("http request", zap.String("method", method), zap.String("url", target))
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return resp, nil
}

func (s *httpStore) Has(ctx context.Context, key string) (bool, error) {
	resp, err := s.do(ctx, http.MethodHead, key)
	if err != nil {
		return false, err
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return false, nil
	}
	if err = toSentinelErrors(resp, key); err != nil {
		return false, err
	}
	return true, nil
}

func (s *httpStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, key)
	if err != nil {
		return nil, err
	}
	if err = toSentinelErrors(resp, key); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*units.KiB))
		_ = resp.Body.Close()
		return nil, err
	}
	if resp.ContentLength >= 0 {
		s.l.Debug("http response", zap.String("key", key), zap.String("size", units.HumanSize(float64(resp.ContentLength))))
	}
	return resp.Body, nil
}

func (s *httpStore) Put(context.Context, string, io.Reader, bool) error {
	return status.ErrNotSupported.Wrapf("%s is read-only", s)
}

func (s *httpStore) Delete(context.Context, string) error {
	return status.ErrNotSupported.Wrapf("%s is read-only", s)
}

// IsURL tells if some repository location should be served by this store
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func describeStatus(resp *http.Response, key string) string {
	return fmt.Sprintf("%s: %s", key, resp.Status)
}
