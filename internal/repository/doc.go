// Package repository contains data access implementations for canvasprint.
//
// Repository interfaces are defined by their consumer in the service
// package. The postgres subpackage implements them on pgx; the schema is
// applied by database.Migrate at startup.
//
// All repository implementations are safe for concurrent use.
package repository
