// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/model"
)

var (
	// ErrMalformedDescriptor indicates that a descriptor is missing a field or has a field with the wrong type
	ErrMalformedDescriptor = model.ErrMalformedDescriptor

	// ErrMalformedSpecifier indicates a dataset specifier which is not <dataset> or <dataset>/<version>
	ErrMalformedSpecifier = errors.New("malformed dataset specifier")

	// ErrDatasetNotFound indicates that a dataset is not listed by a repository
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrVersionNotFound indicates that a version is not listed by a dataset
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoDefaultVersion indicates that no version was specified and the dataset has no default version
	ErrNoDefaultVersion = errors.New("no version specified and no default version")

	// ErrIntegrity indicates that a downloaded file does not match its SHA-256 digest
	ErrIntegrity = errors.New("integrity check failed")

	// ErrAmbiguousRemoval indicates an attempt to remove a dataset holding several versions without asking for all of them
	ErrAmbiguousRemoval = errors.New("ambiguous removal")

	// ErrUnsafeDeletePath indicates a directory to remove which does not lie strictly within the local repository
	ErrUnsafeDeletePath = errors.New("unsafe delete path")

	// ErrFilesystem indicates a local filesystem failure, or a local repository whose directories do not match its metadata
	ErrFilesystem = errors.New("filesystem error")

	// ErrVersionConflict indicates that the local copy of a version differs from the remote one
	ErrVersionConflict = errors.New("local version differs from remote version")

	// ErrPostDownloadAction indicates that some command to process a downloaded file is missing or failed
	ErrPostDownloadAction = errors.New("post-download action failed")

	// ErrRepositoryMayBeInconsistent indicates that the data was changed but the metadata could not be fully updated
	ErrRepositoryMayBeInconsistent = errors.New("local repository may be in an inconsistent state")

	// ErrRepoExists indicates an attempt to initialize a repository at an existing path
	ErrRepoExists = errors.New("path exists already")

	// ErrNotARepo indicates a directory which does not hold a repository descriptor
	ErrNotARepo = errors.New("not an autodataman repository")
)
