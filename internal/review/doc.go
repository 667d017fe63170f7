// Package review composes the markdown comment posted back to a thread
// from the fragments the metadata providers produced.
//
// Composition is deterministic: each fragment (vitals, rating/plot,
// critical/awards, links) is built independently, empty fragments are
// dropped, and the survivors are joined with a fixed separator, so a
// provider failure shrinks the comment instead of leaving holes in it.
// The one deliberately non-deterministic piece is the plot inventor,
// which fabricates a synopsis when none exists; its randomness source is
// injected so tests can pin it down.
package review
