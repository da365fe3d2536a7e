// Package artifact contains the order aggregate that every department works on.
//
// An Artifact owns the shared descriptive attributes of an order (customer, items,
// specification, requested delivery date, priority, notes and budget), one
// DepartmentState slot per department and an append-only transition history.
// It records transitions but knows nothing about which transitions are legal;
// that policy lives in the lifecycle package.
//
// Key invariants:
//   - every department always has a slot, unassigned until the department starts working
//   - department data bags are merged, never replaced
//   - history only grows, one record per accepted transition plus the creation record
//   - shared attributes exist once, on the artifact, never inside a department bag
//
// Artifacts are not safe for concurrent mutation. Repositories hand out copies and
// the coordinator serialises writers per artifact.
package artifact
