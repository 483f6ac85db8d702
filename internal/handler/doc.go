// Package handler contains HTTP request handlers for canvasprint.
//
// Handlers are the entry point for HTTP requests, responsible for:
//   - Request parsing and validation
//   - Calling the experiment, submission and analysis services
//   - Response formatting
//
// # Route Organization
//
// Routes are organized by resource:
//   - /api/experiments/* - experiments, their results and groupings
//   - /api/groups - cross-experiment sample grouping
//   - /api/mt - Mechanical Turk batches
//   - /api/exports - queued report exports (admin)
//
// # Error Handling
//
// Handlers return errors instead of writing error responses. The app's
// error handler renders them, so an apperrors.AppError keeps its status
// and code.
package handler
