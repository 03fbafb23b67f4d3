// Package kernel holds the value objects shared by every aggregate of the
// order service:
//   - UUID: entity identifiers (wrapping github.com/google/uuid)
//   - Money: fixed precision amounts stored as integer minor units
//
// Both are immutable and safe for concurrent use. Their zero values are
// distinguishable from constructed values so that aggregates can reject
// uninitialized input through Validate.
package kernel
