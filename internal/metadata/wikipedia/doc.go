// Package wikipedia extracts review-worthy prose from Wikipedia articles.
//
// Flatten runs a streaming state machine over the rendered article markup
// and produces a flat sequence of heading-delimited text blocks plus the
// list of external links, suppressing navigation chrome (tables,
// superscripts, captions, hatnotes, quote boxes) and the boilerplate
// sections nobody needs quoted back at them (references, see also, and
// friends). On top of that model the package pulls a critical-reception
// excerpt, a lead summary excerpt, and any review-aggregator URLs the
// article links to.
//
// The markup Wikipedia serves is not guaranteed balanced; the state
// machine tolerates stray close tags without losing its place.
package wikipedia
