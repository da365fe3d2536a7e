// Package services provides domain services that apply rules spanning more than
// one department of an artifact.
//
// The package includes:
//   - Eligibility: decides which departments may currently act on an artifact
//   - TransitionPolicy: checks and applies one department transition, all or nothing
//
// Both are stateless apart from the lifecycle catalog they consult and are safe for
// concurrent use.
package services
