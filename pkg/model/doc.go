// Package model describes the base objects manipulated by autodataman.
//
// The package exposes a model for metadata.
//
// The object model for autodataman is composed of:
//
//  Repository:
//    A repository is a directory tree (remote or local) holding a list of datasets,
//    described by repo.txt at its root.
//
//  Datasets:
//    A dataset is a named collection of versions, described by <dataset>/dataset.txt.
//    A dataset may declare a default version.
//
//  Versions:
//    A version is an immutable, fixed set of files with known SHA-256 digests,
//    described by <dataset>/<version>/data.txt.
//
//  Files:
//    A file record carries a file name, its digest, a format tag and an optional
//    action to run once the file has been downloaded (e.g. "open" for tgz archives).
package model
