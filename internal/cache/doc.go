// Package cache memoizes idempotent upstream HTTP calls in a persistent
// store keyed by a deterministic request fingerprint. A hit is served as-is
// forever; a miss dispatches upstream and persists the payload before the
// call returns, so a crash between dispatch and persistence only costs a
// future re-dispatch. Failed dispatches are never cached. Two distinct
// requests that fingerprint identically would silently share an entry; with
// SHA-256 that risk is accepted rather than checked.
package cache
