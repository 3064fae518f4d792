// Package filesystem provides implementations of types.FS: a direct OS
// implementation for production use and an afero-backed one so tests can
// run against an in-memory filesystem.
package filesystem
