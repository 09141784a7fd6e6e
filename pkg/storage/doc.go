// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - HTTP(S) servers publishing a repository (read-only)
//   - local file system, optionally with atomic puts
package storage
