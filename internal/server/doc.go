// Package server provides HTTP routing, middleware and an in-memory willette backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and dispatches on method per path.
//
// # Backend
//
// [Backend] serves the admin endpoints from memory with the status codes of the hosted service. `willette devserver`
// runs it on localhost so the CLI and TUI can be exercised without the real API, and the client tests point at it
// through [net/http/httptest].
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
