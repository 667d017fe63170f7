// Package ratelimit enforces a minimum spacing between calls to a single
// external endpoint.
//
// Each remote host gets one Limiter instance, created by the composition
// root and shared by reference with every client that talks to that host.
// Wait blocks until the configured interval has elapsed since the previous
// Wait on the same instance, so a sequential pipeline never hammers a
// provider faster than it permits. The clock and sleep functions are
// injectable so tests can run without real delays.
package ratelimit
