package model

// Dataset describes a named collection of versions (<dataset>/dataset.txt).
type Dataset struct {
	ShortName string
	LongName  string
	Source    string
	Default   string
	Versions  []string
}

type datasetHeader struct {
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
	Source    string `json:"source"`
	Default   string `json:"default"`
}

type datasetDescriptor struct {
	Dataset  datasetHeader `json:"_DATASET"`
	Versions []string      `json:"_VERSIONS"`
}

// LoadDataset decodes and validates a dataset descriptor
func LoadDataset(data []byte) (*Dataset, error) {
	root, err := parseDescriptor(data)
	if err != nil {
		return nil, err
	}
	header, err := root.object("_DATASET")
	if err != nil {
		return nil, err
	}
	ds := &Dataset{}
	if ds.ShortName, err = header.str("short_name"); err != nil {
		return nil, err
	}
	if ds.LongName, err = header.str("long_name"); err != nil {
		return nil, err
	}
	if ds.Source, err = header.optionalStr("source"); err != nil {
		return nil, err
	}
	if ds.Default, err = header.str("default"); err != nil {
		return nil, err
	}
	if ds.Versions, err = root.names("_VERSIONS", ValidateVersionName); err != nil {
		return nil, err
	}
	return ds, nil
}

// NewDatasetFrom seeds a local dataset record from its remote counterpart, with no version
func NewDatasetFrom(remote *Dataset) *Dataset {
	return &Dataset{
		ShortName: remote.ShortName,
		LongName:  remote.LongName,
		Source:    remote.Source,
		Default:   remote.Default,
		Versions:  []string{},
	}
}

// Marshal the dataset descriptor in its canonical form
func (d *Dataset) Marshal() ([]byte, error) {
	return marshalDescriptor(datasetDescriptor{
		Dataset: datasetHeader{
			ShortName: d.ShortName,
			LongName:  d.LongName,
			Source:    d.Source,
			Default:   d.Default,
		},
		Versions: nonNil(d.Versions),
	})
}

// HasVersion tells if the dataset lists this version
func (d *Dataset) HasVersion(name string) bool {
	return indexOf(d.Versions, name) >= 0
}

// AddVersion appends a version to the list. It returns false if the version was already listed.
func (d *Dataset) AddVersion(name string) bool {
	if d.HasVersion(name) {
		return false
	}
	d.Versions = append(d.Versions, name)
	return true
}

// RemoveVersion removes a version from the list. It returns false if the version was not listed.
func (d *Dataset) RemoveVersion(name string) bool {
	var removed bool
	d.Versions, removed = without(d.Versions, name)
	return removed
}
