package core

import (
	"strings"

	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/model"
)

// ResolveSpecifier splits a "<dataset>[/<version>]" specifier.
//
// The version is empty when not specified.
func ResolveSpecifier(specifier string) (dataset, version string, err error) {
	parts := strings.Split(specifier, "/")
	switch len(parts) {
	case 1:
		dataset = parts[0]
	case 2:
		dataset, version = parts[0], parts[1]
		if version == "" {
			return "", "", status.ErrMalformedSpecifier.Wrapf("%q: missing version after '/'", specifier)
		}
	default:
		return "", "", status.ErrMalformedSpecifier.Wrapf("%q: multiple '/' characters", specifier)
	}
	if dataset == "" {
		return "", "", status.ErrMalformedSpecifier.Wrapf("%q: missing dataset name", specifier)
	}
	if err = model.ValidateName(dataset); err != nil {
		return "", "", status.ErrMalformedSpecifier.Wrapf("%q: %v", specifier, err)
	}
	if version != "" {
		if err = model.ValidateVersionName(version); err != nil {
			return "", "", status.ErrMalformedSpecifier.Wrapf("%q: %v", specifier, err)
		}
	}
	return dataset, version, nil
}

// ResolveVersion picks the version to use for a dataset: the requested one, or else the default version.
func ResolveVersion(ds *model.Dataset, dataset, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	if ds.Default == "" {
		return "", status.ErrNoDefaultVersion.Wrapf("dataset %q: please specify one of: %s",
			dataset, strings.Join(ds.Versions, ", "))
	}
	return ds.Default, nil
}
