// Package domain contains the core business entities, value objects, and
// domain rules of the meeting scheduler. It is independent of any specific
// storage backend, identity provider or delivery mechanism.
//
// The Meeting entity owns its invariants: a non-empty title, a valid date,
// an immutable creator, and an UpdatedAt that only moves forward.
package domain
