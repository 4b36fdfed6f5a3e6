// Package domain defines the core business entities for f5lake.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: One opaque log record as delivered by a connector
//   - FieldMap: The 22 raw fields extracted from a record
//   - NormalizedRecord: Fields with nulls and numeric types resolved
//   - EnrichedRecord: A normalised record plus derived analytic dimensions
//   - BatchStats: Per-batch outcome counters
//   - BatchRun: A persisted batch execution with its statistics
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
