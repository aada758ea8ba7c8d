// Package api implements the HTTP handlers, request/response DTOs, and
// error-to-status mapping for the task-list service. Handlers stay thin:
// they decode and validate input, call into the service and store layers,
// and translate the resulting errors into the wire contract.
package api
