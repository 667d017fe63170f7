// Package metadata defines the shared types and error taxonomy for the
// external metadata providers.
//
// A Query identifies the work being looked up; a MediaRecord is the
// canonical entity returned by the primary search; CrossRefs carries the
// sibling identifiers and awards data obtained from the cross-reference
// provider. Sentinel errors distinguish the expected "provider had no
// data" and "provider could not pick one match" outcomes from genuine
// transport failures, so callers can degrade gracefully without string
// matching on error text.
package metadata
