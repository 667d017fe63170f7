// Package titleparse turns noisy human-written post titles into a clean
// (title, year) query for the metadata providers.
//
// Post titles arrive in every imaginable shape: quality tags, platform
// names, bracketed years, nested parentheticals, quoted titles buried in a
// sentence. The Extractor applies a fixed pipeline of regex passes to strip
// the noise and pull out the most plausible title and release year. The
// noise vocabulary is configuration rather than code because it needs
// ongoing tuning as posters invent new tags.
package titleparse
