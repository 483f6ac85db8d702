// Package service contains the business logic of canvasprint.
//
// Services sit between the HTTP handlers and the repositories. They
// depend on the repository interfaces declared in repositories.go, which the
// postgres package implements.
//
//   - ExperimentService: experiment lookup and registration
//   - SubmissionService: storing canvases from the experiment pages and the
//     Mechanical Turk page
//   - AnalysisService: decoding stored canvases and running the fingerprint
//     engine over them, with the configured exclusion rules applied
//
// All services are safe for concurrent use.
package service
