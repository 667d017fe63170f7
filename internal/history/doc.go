// Package history persists the processing outcome for every post the bot
// has seen, backed by SQLite. It is the dedupe gate for the feed scanner
// and the retry source for posts that found no match while metadata
// providers were unavailable.
package history
