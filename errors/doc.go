// Package errors provides unified error handling for the auth service.
// It implements a structured error type with machine-readable codes,
// HTTP status mapping and the JSON envelope every failing route returns:
//
//	{ "success": false, "message": "<text>", "error": "<text>" }
package errors
