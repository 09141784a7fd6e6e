package model

const (
	// RepoType is the schema tag expected in every repository descriptor
	RepoType = "autodataman"

	// RepoSchemaVersion is the schema version written to new repository descriptors
	RepoSchemaVersion = "1"
)

// Repository describes the list of datasets held by a repository (repo.txt).
type Repository struct {
	Type     string
	Version  string
	Datasets []string
}

type repoHeader struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

type repoDescriptor struct {
	Repo     repoHeader `json:"_REPO"`
	Datasets []string   `json:"_DATASETS"`
}

// NewRepository builds an empty repository descriptor
func NewRepository() *Repository {
	return &Repository{
		Type:     RepoType,
		Version:  RepoSchemaVersion,
		Datasets: []string{},
	}
}

// LoadRepository decodes and validates a repository descriptor
func LoadRepository(data []byte) (*Repository, error) {
	root, err := parseDescriptor(data)
	if err != nil {
		return nil, err
	}
	header, err := root.object("_REPO")
	if err != nil {
		return nil, err
	}
	typ, err := header.str("type")
	if err != nil {
		return nil, err
	}
	if typ != RepoType {
		return nil, ErrMalformedDescriptor.Wrapf("field _REPO::type must be %q, got %q", RepoType, typ)
	}
	version, err := header.str("version")
	if err != nil {
		return nil, err
	}
	datasets, err := root.names("_DATASETS", ValidateName)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Type:     typ,
		Version:  version,
		Datasets: datasets,
	}, nil
}

// Marshal the repository descriptor in its canonical form
func (r *Repository) Marshal() ([]byte, error) {
	return marshalDescriptor(repoDescriptor{
		Repo:     repoHeader{Type: r.Type, Version: r.Version},
		Datasets: nonNil(r.Datasets),
	})
}

// HasDataset tells if the repository lists this dataset
func (r *Repository) HasDataset(name string) bool {
	return indexOf(r.Datasets, name) >= 0
}

// AddDataset appends a dataset to the list. It returns false if the dataset was already listed.
func (r *Repository) AddDataset(name string) bool {
	if r.HasDataset(name) {
		return false
	}
	r.Datasets = append(r.Datasets, name)
	return true
}

// RemoveDataset removes a dataset from the list. It returns false if the dataset was not listed.
func (r *Repository) RemoveDataset(name string) bool {
	var removed bool
	r.Datasets, removed = without(r.Datasets, name)
	return removed
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func without(names []string, name string) ([]string, bool) {
	idx := indexOf(names, name)
	if idx < 0 {
		return names, false
	}
	res := make([]string, 0, len(names)-1)
	res = append(res, names[:idx]...)
	return append(res, names[idx+1:]...), true
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
