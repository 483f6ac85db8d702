// Package errors provides application error types for canvasprint.
//
// Handlers never inspect engine or repository errors directly. Services
// return either an *AppError or an error that FromAnalysis can classify,
// and the HTTP layer maps the result onto a status code.
//
// # Error Types
//
//   - NotFound: experiment, sample or canvas does not exist (404)
//   - Validation: malformed request or analysis input (400)
//   - Unauthorized: admin token missing or invalid (401)
//   - Conflict: duplicate experiment name (409)
//   - Unprocessable: canvas payload could not be decoded (422)
//   - Internal: unexpected failure (500)
//
// # Usage
//
//	return apperrors.NotFound("experiment")
//	return apperrors.FromAnalysis(err)
package errors
