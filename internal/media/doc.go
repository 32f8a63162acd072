// Package media translates HTTP Range headers into exact byte offsets and
// streams the matching slice of a library file. The parser applies the
// clamping and default rules for progressive download; the reader produces
// the status code and header values for a 200 or 206 response without ever
// buffering more than one chunk of a ranged request.
package media
