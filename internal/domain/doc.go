// Package domain contains the entities and request/response types of the
// canvas fingerprinting service.
//
// # Key Entities
//
//   - Experiment: a named drawing test with the scripts that render it
//   - Sample: one browser/device that ran experiments
//   - Canvas: the image a sample produced for one experiment
//
// Grouping results are described by GroupResponse. Types ending in "Input"
// or "Submission" are request payloads and carry validate tags.
package domain
