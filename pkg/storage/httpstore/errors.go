package httpstore

import (
	"errors"
	"net/http"

	"github.com/oneconcern/autodataman/pkg/storage/status"
)

// toSentinelErrors maps HTTP status codes to the sentinel errors defined by the status package
func toSentinelErrors(resp *http.Response, key string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := errors.New(describeStatus(resp, key))
	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return status.ErrNotExists.Wrap(err)
	case http.StatusUnauthorized:
		return status.ErrUnauthorized.Wrap(err)
	case http.StatusForbidden:
		return status.ErrForbidden.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}
