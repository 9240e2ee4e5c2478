// Package domain defines the core business entities for bucketqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Object: A stored object enumerated from a bucket
//   - DocumentType: The closed classification of supported formats
//   - Document: An extracted document held in the corpus
//   - Answer, Summary, SearchHit: Per-query results
//   - LoadReport: The outcome of one ingestion run
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
