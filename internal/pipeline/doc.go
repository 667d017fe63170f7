// Package pipeline drives the end-to-end flow for one scan: fetch posts
// from the feed, extract title candidates, resolve metadata across
// providers, compose review comments, and record outcomes in history.
//
// Provider failures are graded. A primary-search miss is an outcome, not
// an error; cross-reference and encyclopedia failures degrade the review
// rather than aborting it; a primary transport failure parks the post for
// retry on a later scan.
package pipeline
