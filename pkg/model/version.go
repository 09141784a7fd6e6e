package model

import (
	"encoding/hex"
	"fmt"
)

// DigestLength is the length of a hex-encoded SHA-256 digest
const DigestLength = 64

// File describes one data file within a version
type File struct {
	Filename   string
	Digest     string
	Format     string
	OnDownload string
}

// Version describes an immutable set of files (<dataset>/<version>/data.txt).
type Version struct {
	Name   string
	Date   string
	Source string
	Files  []File
}

type fileDescriptor struct {
	Filename   string `json:"filename"`
	Digest     string `json:"SHA256sum"`
	Format     string `json:"format"`
	OnDownload string `json:"on_download,omitempty"`
}

type versionHeader struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Source  string `json:"source"`
}

type versionDescriptor struct {
	Data  versionHeader    `json:"_DATA"`
	Files []fileDescriptor `json:"_FILES"`
}

// LoadVersion decodes and validates a version descriptor
func LoadVersion(data []byte) (*Version, error) {
	root, err := parseDescriptor(data)
	if err != nil {
		return nil, err
	}
	header, err := root.object("_DATA")
	if err != nil {
		return nil, err
	}
	v := &Version{}
	if v.Name, err = header.str("version"); err != nil {
		return nil, err
	}
	if err = ValidateVersionName(v.Name); err != nil {
		return nil, ErrMalformedDescriptor.Wrapf("_DATA::version: %v", err)
	}
	if v.Date, err = header.str("date"); err != nil {
		return nil, err
	}
	if v.Source, err = header.str("source"); err != nil {
		return nil, err
	}
	items, err := root.objects("_FILES")
	if err != nil {
		return nil, err
	}
	v.Files = make([]File, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		f, err := loadFile(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f.Filename]; dup {
			return nil, ErrMalformedDescriptor.Wrapf("%s::filename: duplicate file %q", item.path, f.Filename)
		}
		seen[f.Filename] = struct{}{}
		v.Files = append(v.Files, f)
	}
	return v, nil
}

func loadFile(n node) (File, error) {
	var (
		f   File
		err error
	)
	if f.Filename, err = n.str("filename"); err != nil {
		return f, err
	}
	if f.Filename == VersionDescriptorFile {
		return f, ErrMalformedDescriptor.Wrapf("%s::filename: %q is reserved", n.path, f.Filename)
	}
	if err = ValidateName(f.Filename); err != nil {
		return f, ErrMalformedDescriptor.Wrapf("%s::filename: %v", n.path, err)
	}
	if f.Digest, err = n.str("SHA256sum"); err != nil {
		return f, err
	}
	if err = validateDigest(f.Digest); err != nil {
		return f, ErrMalformedDescriptor.Wrapf("%s::SHA256sum: %v", n.path, err)
	}
	if f.Format, err = n.str("format"); err != nil {
		return f, err
	}
	if f.OnDownload, err = n.optionalStr("on_download"); err != nil {
		return f, err
	}
	return f, nil
}

func validateDigest(digest string) error {
	if len(digest) != DigestLength {
		return fmt.Errorf("expected %d hexadecimal characters, got %d", DigestLength, len(digest))
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return fmt.Errorf("%q is not hexadecimal", digest)
	}
	return nil
}

// Marshal the version descriptor in its canonical form
func (v *Version) Marshal() ([]byte, error) {
	files := make([]fileDescriptor, 0, len(v.Files))
	for _, f := range v.Files {
		files = append(files, fileDescriptor(f))
	}
	return marshalDescriptor(versionDescriptor{
		Data: versionHeader{
			Version: v.Name,
			Date:    v.Date,
			Source:  v.Source,
		},
		Files: files,
	})
}

// Equal tells if two version descriptors are structurally identical,
// including the order of their files.
func (v *Version) Equal(other *Version) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Name != other.Name || v.Date != other.Date || v.Source != other.Source {
		return false
	}
	if len(v.Files) != len(other.Files) {
		return false
	}
	for i := range v.Files {
		if !v.Files[i].Equal(other.Files[i]) {
			return false
		}
	}
	return true
}

// Equal tells if two file records are identical
func (f File) Equal(other File) bool {
	return f == other
}

// HasAction tells if some command must be run after this file is downloaded
func (f File) HasAction() bool {
	return f.OnDownload != ""
}
