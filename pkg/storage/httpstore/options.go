package httpstore

import (
	"net/http"

	"go.uber.org/zap"
)

// Option for the http store
type Option func(*httpStore)

// Client sets the http client used for all requests
func Client(client *http.Client) Option {
	return func(s *httpStore) {
		if client != nil {
			s.client = client
		}
	}
}

// Logger sets a logger for requests
func Logger(l *zap.Logger) Option {
	return func(s *httpStore) {
		if l != nil {
			s.l = l
		}
	}
}
