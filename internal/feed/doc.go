// Package feed reads posts from a reddit-style listing API and posts
// comment replies. The Source interface keeps the pipeline independent of
// the concrete transport so tests can drive it with fakes.
package feed
