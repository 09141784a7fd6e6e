package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/oneconcern/autodataman/internal/rand"
	"github.com/oneconcern/autodataman/pkg/model"
	"github.com/stretchr/testify/require"
)

// fixtureFile is a data file published on a test remote repository
type fixtureFile struct {
	name    string
	content []byte
	format  string
	action  string
	// digest overrides the actual digest of the content when set
	digest string
}

func randomFile(name string) fixtureFile {
	return fixtureFile{name: name, content: rand.Bytes(4096), format: "bin"}
}

func digestOf(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// remoteFixture is a remote repository published in a local directory
type remoteFixture struct {
	t   testing.TB
	dir string
}

func newRemoteFixture(t testing.TB) *remoteFixture {
	f := &remoteFixture{t: t, dir: filepath.Join(t.TempDir(), "server")}
	require.NoError(t, os.MkdirAll(f.dir, 0755))
	f.writeDescriptor(model.RepoDescriptorFile, model.NewRepository())
	return f
}

func (f *remoteFixture) writeDescriptor(key string, descriptor interface{ Marshal() ([]byte, error) }) {
	b, err := descriptor.Marshal()
	require.NoError(f.t, err)
	f.writeFile(key, b)
}

func (f *remoteFixture) writeFile(key string, content []byte) {
	target := filepath.Join(f.dir, filepath.FromSlash(key))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(f.t, os.WriteFile(target, content, 0644))
}

func (f *remoteFixture) readDescriptor(key string) []byte {
	b, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(key)))
	require.NoError(f.t, err)
	return b
}

// publish a version on the remote repository, replacing any previous content of this version.
//
// The first published version of a dataset becomes its default version.
func (f *remoteFixture) publish(dataset, version string, files ...fixtureFile) *model.Version {
	repo, err := model.LoadRepository(f.readDescriptor(model.RepoDescriptorFile))
	require.NoError(f.t, err)
	if repo.AddDataset(dataset) {
		f.writeDescriptor(model.RepoDescriptorFile, repo)
	}

	ds := &model.Dataset{
		ShortName: dataset,
		LongName:  "dataset " + dataset,
		Source:    "test",
		Versions:  []string{},
	}
	if b, err := os.ReadFile(filepath.Join(f.dir, dataset, model.DatasetDescriptorFile)); err == nil {
		ds, err = model.LoadDataset(b)
		require.NoError(f.t, err)
	}
	if ds.Default == "" {
		ds.Default = version
	}
	ds.AddVersion(version)
	f.writeDescriptor(model.GetPathToDatasetDescriptor(dataset), ds)

	v := &model.Version{Name: version, Date: "2019-05-01", Source: "test", Files: []model.File{}}
	for _, file := range files {
		digest := file.digest
		if digest == "" {
			digest = digestOf(file.content)
		}
		v.Files = append(v.Files, model.File{
			Filename:   file.name,
			Digest:     digest,
			Format:     file.format,
			OnDownload: file.action,
		})
		f.writeFile(model.GetPathToFile(dataset, version, file.name), file.content)
	}
	f.writeDescriptor(model.GetPathToVersionDescriptor(dataset, version), v)
	return v
}

func (f *remoteFixture) remote() *Remote {
	r, err := OpenRemote(f.dir)
	require.NoError(f.t, err)
	return r
}

func newLocalFixture(t testing.TB) *LocalRepo {
	local, err := InitRepo(context.Background(), filepath.Join(t.TempDir(), "local"))
	require.NoError(t, err)
	return local
}

type snapshotEntry struct {
	isDir   bool
	content string
	mode    fs.FileMode
	modTime int64
}

// snapshot records every path under a directory, to assert that nothing was written
func snapshot(t testing.TB, root string) map[string]snapshotEntry {
	res := make(map[string]snapshotEntry)
	require.NoError(t, filepath.WalkDir(root, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, pth)
		entry := snapshotEntry{isDir: d.IsDir(), mode: info.Mode()}
		if !d.IsDir() {
			entry.modTime = info.ModTime().UnixNano()
			b, err := os.ReadFile(pth)
			if err != nil {
				return err
			}
			entry.content = digestOf(b)
		}
		res[rel] = entry
		return nil
	}))
	return res
}

// tree lists the paths under a directory
func tree(t testing.TB, root string) []string {
	var res []string
	for rel := range snapshot(t, root) {
		res = append(res, filepath.ToSlash(rel))
	}
	sort.Strings(res)
	return res
}

func readLocal(t testing.TB, local *LocalRepo, key string) []byte {
	b, err := os.ReadFile(local.realPath(key))
	require.NoError(t, err)
	return b
}

func requireSameContent(t testing.TB, expected []byte, local *LocalRepo, key string) {
	require.True(t, bytes.Equal(expected, readLocal(t, local, key)), "unexpected content for %s", key)
}
