// Package domain defines the core entities of the repocorpus pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileDescriptor: identifying metadata for one remote file
//   - FetchResult: the outcome of retrieving and persisting one file
//   - Document: the normalised, format-extracted form of one file
//   - Settings: tunables for fetching and processing
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
