// Package server provides the HTTP server of the auth service: a Gin engine
// served with h2c support, the standard middleware stack and the
// operational endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//   - RateLimit: per-client sliding window limits
//   - RequireAuth / GinAuth: Bearer token guard
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /alive and /ready.
//
// # Responses
//
// Handlers answer through RespondSuccess and RespondError so every body
// carries a "success" flag. Failures always have the shape
// {"success": false, "message": ..., "error": ...}.
package server
