// Package auth groups the authentication building blocks of the service:
//
//   - auth/password — argon2id credential hashing in PHC string format
//   - auth/jwt      — issuing and verifying signed identity tokens
//   - auth/authctx  — request context propagation for verified claims
//
// The top-level Config composes the subpackage configs:
//
//	auth:
//	  jwt:
//	    secret: "change-me"
//	    expires_in: "7d"
//	  password:
//	    memory_cost: 65536
//	    time_cost: 3
//	    parallelism: 1
//
// The HTTP guard that consumes the token service lives in server/middleware.
package auth
