// Package server owns the Fiber application shell (panic recovery and
// request-ID middleware) plus the shared upstream HTTP client used by the
// cache resolver's dispatch path. Route handlers live in the routes
// subpackage so they can be tested against a bare app.
package server
