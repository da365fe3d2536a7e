// Package lifecycle holds the per-department state machines.
//
// A Machine is a static policy: which moves a department may make, which state a
// department enters when it starts, which attributes each state demands and how
// those attributes are described to callers building an input form. Machines are
// immutable after construction and hold no reference to any artifact, so a single
// Catalog is shared by every request.
//
// Each department's states are an independent enum. Admin and workshop both have a
// state tagged "inProduction"; the two tags are unrelated.
package lifecycle
