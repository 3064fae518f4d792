// Package paths provides centralized handling of the logical content
// paths that flow through bridge manifests. It canonicalizes
// producer-relative paths, builds destination package paths and bridge
// file locations, and recovers original asset names from source
// references.
//
// Logical content paths always use forward slashes and are rooted at a
// single leading separator; they are not filesystem paths.
package paths
