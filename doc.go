// Package lectureauth implements the credential lifecycle core of the
// lecture-summary backend: password login, JWT access tokens, an opaque
// refresh-token registry, a logout blacklist, and single-use password
// reset tokens.
//
// All cross-request state lives in Redis. The engine itself holds only
// immutable configuration and client handles, so a single *Engine is safe
// for concurrent use and horizontally scalable without sticky sessions.
//
// The package is a library, not a server. It takes a PrincipalProvider
// and a Hasher from the caller, talks to Redis through its own stores,
// and reports every failure as a *Error carrying a closed Kind taxonomy.
// Transport concerns (cookies, headers, status codes) belong to the
// httpserver package; the engine never sees an *http.Request.
//
// Things this package deliberately does not do:
//
//   - rotate refresh tokens on use; a refresh token stays valid until
//     logout or registry expiry
//   - deliver reset tokens; RequestPasswordReset returns the token to
//     the caller, who owns the delivery channel
//   - cache store state in process; every check is a Redis round-trip
//   - enforce role policy; the role claim is carried, never interpreted
package lectureauth
