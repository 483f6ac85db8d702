// Package fingerprint groups rendered canvas samples into equivalence classes
// and measures how well the rendering distinguishes the devices that produced
// them.
//
// This package defines:
//   - Record, Class and Result, the engine's input and output types
//   - Comparator implementations for exact pixel equality
//   - The grouping, ordering, filtering and entropy steps
//
// # Pipeline
//
// Analyze runs the steps in a fixed order:
//
//	records -> Filter -> Group -> Order -> Entropy
//
// Filtering happens before grouping so excluded samples never influence
// which classes exist.
//
// # Equality
//
// Images have no cheap, consistent hash for this domain, so classes are built
// by a linear scan that compares each record against the representative
// (first member) of every existing class. Any Comparator that is reflexive,
// symmetric and transitive over the handles seen in one run yields a valid
// partition.
//
// # Concurrency
//
// The engine holds no state between calls and performs no I/O. Concurrent
// calls on the same Engine are safe as long as the Comparator is.
package fingerprint
