// Package types defines the shared data model of the bridge: the manifest
// and its export records, material slots and changesets, and the narrow
// interfaces through which the reconciliation engine talks to a host
// application and to the filesystem.
//
// The same record type flows through both directions of the bridge; fields
// that only one direction populates (world transform, material changeset,
// skeleton reference) are optional members rather than per-direction types.
package types
