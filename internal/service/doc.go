// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Services receive dependencies through constructor injection and never
// depend on specific infrastructure implementations; the API layer maps
// the sentinel errors they return to HTTP status codes.
package service
