// Package kernel provides the primitives shared by every orderflow aggregate.
//
// The package includes:
//   - UUID: an immutable identifier value object backed by github.com/google/uuid
//   - Clock: the injectable time source used wherever the domain stamps a timestamp
//
// Both are safe for concurrent use.
package kernel
