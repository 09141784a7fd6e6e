package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oneconcern/autodataman/pkg/fingerprint"
	"github.com/oneconcern/autodataman/pkg/model"
	"go.uber.org/zap"
)

type (
	// ValidateOption sets options to validate a local repository
	ValidateOption func(*validateOptions)

	validateOptions struct {
		verifyDigests bool
		l             *zap.Logger
	}
)

// WithVerifyDigests recomputes the SHA-256 digest of every data file
func WithVerifyDigests(verify bool) ValidateOption {
	return func(o *validateOptions) {
		o.verifyDigests = verify
	}
}

// WithValidateLogger sets a logger to report progress
func WithValidateLogger(l *zap.Logger) ValidateOption {
	return func(o *validateOptions) {
		if l != nil {
			o.l = l
		}
	}
}

// Issue is an inconsistency found in a local repository
type Issue struct {
	Path    string
	Problem string
}

// ValidationReport summarizes the state of a local repository
type ValidationReport struct {
	Datasets int
	Versions int
	Files    int
	Issues   []Issue
}

// OK tells if no issue was found
func (r ValidationReport) OK() bool {
	return len(r.Issues) == 0
}

type validator struct {
	*validateOptions
	local  *LocalRepo
	maker  *fingerprint.Maker
	report ValidationReport
}

// Validate checks that the directories of a local repository match its metadata.
//
// It reports datasets and versions referenced but missing, directories present but not
// referenced, leftover staging directories and descriptors which cannot be loaded.
// The repository is never modified.
func Validate(ctx context.Context, local *LocalRepo, opts ...ValidateOption) (ValidationReport, error) {
	o := &validateOptions{l: zap.NewNop()}
	for _, apply := range opts {
		apply(o)
	}
	v := &validator{
		validateOptions: o,
		local:           local,
		maker:           fingerprint.New(fingerprint.Fs(local.fs)),
	}

	repo, err := local.Repository(ctx)
	if err != nil {
		return v.report, err
	}
	v.report.Datasets = len(repo.Datasets)

	if err = v.unreferenced("", repo.Datasets, false); err != nil {
		return v.report, err
	}
	for _, dataset := range repo.Datasets {
		if err = ctx.Err(); err != nil {
			return v.report, err
		}
		if err = v.dataset(ctx, dataset); err != nil {
			return v.report, err
		}
	}

	sort.SliceStable(v.report.Issues, func(i, j int) bool {
		return v.report.Issues[i].Path < v.report.Issues[j].Path
	})
	return v.report, nil
}

func (v *validator) addIssue(key, format string, args ...interface{}) {
	issue := Issue{Path: v.local.realPath(key), Problem: fmt.Sprintf(format, args...)}
	v.l.Debug("issue", zap.String("path", issue.Path), zap.String("problem", issue.Problem))
	v.report.Issues = append(v.report.Issues, issue)
}

// unreferenced reports directories under key which are not listed in the metadata
func (v *validator) unreferenced(key string, listed []string, versions bool) error {
	dirs, err := v.local.subdirs(key)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(listed))
	for _, name := range listed {
		known[name] = struct{}{}
	}
	for _, dir := range dirs {
		if _, ok := known[dir]; ok {
			continue
		}
		child := dir
		if key != "" {
			child = key + "/" + dir
		}
		switch {
		case versions && strings.HasSuffix(dir, model.StagingSuffix):
			v.addIssue(child, "leftover staging directory from an interrupted download")
		case versions && strings.HasSuffix(dir, model.RetiredSuffix):
			v.addIssue(child, "leftover version directory from an interrupted replacement")
		default:
			v.addIssue(child, "directory is not referenced in the metadata")
		}
	}
	return nil
}

func (v *validator) dataset(ctx context.Context, dataset string) error {
	key := model.GetPathToDataset(dataset)
	exists, isDir, err := v.local.stat(key)
	if err != nil {
		return err
	}
	if !exists || !isDir {
		v.addIssue(key, "dataset is referenced in the repository metadata but the directory is missing")
		return nil
	}

	ds, err := v.local.Dataset(ctx, dataset)
	if err != nil {
		v.addIssue(model.GetPathToDatasetDescriptor(dataset), "cannot load dataset descriptor: %v", err)
		return nil
	}
	v.report.Versions += len(ds.Versions)

	if err = v.unreferenced(key, ds.Versions, true); err != nil {
		return err
	}
	for _, version := range ds.Versions {
		if err = v.version(ctx, dataset, version); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) version(ctx context.Context, dataset, version string) error {
	key := model.GetPathToVersion(dataset, version)
	exists, isDir, err := v.local.stat(key)
	if err != nil {
		return err
	}
	if !exists || !isDir {
		v.addIssue(key, "version is referenced in the dataset metadata but the directory is missing")
		return nil
	}

	descriptor, err := v.local.Version(ctx, dataset, version)
	if err != nil {
		v.addIssue(model.GetPathToVersionDescriptor(dataset, version), "cannot load version descriptor: %v", err)
		return nil
	}
	if descriptor.Name != version {
		v.addIssue(model.GetPathToVersionDescriptor(dataset, version), "descriptor is for version %q", descriptor.Name)
	}

	for _, file := range descriptor.Files {
		if file.HasAction() {
			// the downloaded file was processed then removed
			continue
		}
		fileKey := model.GetPathToFile(dataset, version, file.Filename)
		exists, isDir, err = v.local.stat(fileKey)
		if err != nil {
			return err
		}
		if !exists || isDir {
			v.addIssue(fileKey, "file is missing")
			continue
		}
		v.report.Files++
		if !v.verifyDigests {
			continue
		}
		digest, err := v.maker.Process(fileKey)
		if err != nil {
			v.addIssue(fileKey, "cannot read file: %v", err)
			continue
		}
		if !fingerprint.Equal(digest, file.Digest) {
			v.addIssue(fileKey, "SHA-256 %s does not match %s", digest, file.Digest)
		}
	}
	return nil
}
