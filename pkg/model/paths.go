package model

import (
	"path"
	"strings"
)

const (
	// descriptor files (object metadata)
	RepoDescriptorFile    = "repo.txt"
	DatasetDescriptorFile = "dataset.txt"
	VersionDescriptorFile = "data.txt"

	descriptorExt       = ".txt"
	legacyDescriptorExt = ".json"

	// StagingSuffix marks a version directory being downloaded
	StagingSuffix = ".part"

	// RetiredSuffix marks a live version directory being replaced
	RetiredSuffix = ".old"
)

// GetPathToRepoDescriptor yields the key of the repository descriptor, relative to the repository root
func GetPathToRepoDescriptor() string {
	return RepoDescriptorFile
}

// GetPathToDataset yields the key of a dataset directory
func GetPathToDataset(dataset string) string {
	return dataset
}

// GetPathToDatasetDescriptor yields the key of a dataset descriptor
func GetPathToDatasetDescriptor(dataset string) string {
	return path.Join(dataset, DatasetDescriptorFile)
}

// GetPathToVersion yields the key of a version directory
func GetPathToVersion(dataset, version string) string {
	return path.Join(dataset, version)
}

// GetPathToVersionDescriptor yields the key of a version descriptor
func GetPathToVersionDescriptor(dataset, version string) string {
	return path.Join(dataset, version, VersionDescriptorFile)
}

// GetPathToFile yields the key of a data file within a version
func GetPathToFile(dataset, version, filename string) string {
	return path.Join(dataset, version, filename)
}

// GetPathToStaging yields the key of the staging directory used to replace a version
func GetPathToStaging(dataset, version string) string {
	return path.Join(dataset, version+StagingSuffix)
}

// GetPathToRetired yields the key a live version is moved to while being replaced
func GetPathToRetired(dataset, version string) string {
	return path.Join(dataset, version+RetiredSuffix)
}

// LegacyDescriptorPath maps a descriptor key to the name used by servers publishing .json descriptors.
//
// Keys which are not descriptors are returned unchanged.
func LegacyDescriptorPath(key string) string {
	if !strings.HasSuffix(key, descriptorExt) {
		return key
	}
	return strings.TrimSuffix(key, descriptorExt) + legacyDescriptorExt
}

// ValidateName checks that a dataset, version or file name is usable as a single path component.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrInvalidName.Wrapf("empty name")
	case name == "." || name == "..":
		return ErrInvalidName.Wrapf("%q is not allowed", name)
	case strings.ContainsAny(name, `/\`):
		return ErrInvalidName.Wrapf("%q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return ErrInvalidName.Wrapf("%q contains a NUL character", name)
	}
	return nil
}

// ValidateVersionName checks a version name, which must not collide with staging or retired directories
func ValidateVersionName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if strings.HasSuffix(name, StagingSuffix) || strings.HasSuffix(name, RetiredSuffix) {
		return ErrInvalidName.Wrapf("version %q uses a reserved suffix", name)
	}
	return nil
}
