package model

import "github.com/oneconcern/autodataman/pkg/errors"

var (
	// ErrMalformedDescriptor indicates that a descriptor could not be loaded: either it is not
	// valid JSON, or some required field is missing or has the wrong type.
	ErrMalformedDescriptor = errors.New("malformed descriptor")

	// ErrInvalidName indicates that a dataset, version or file name cannot be used as a path component
	ErrInvalidName = errors.New("invalid name")
)

func missingField(path string) error {
	return ErrMalformedDescriptor.Wrapf("missing field %s", path)
}

func mistypedField(path, expected string) error {
	return ErrMalformedDescriptor.Wrapf("field %s must be %s", path, expected)
}
