// Package wikidata resolves a work's IMDb identifier into sibling
// provider identifiers and awards data via the Wikidata SPARQL and entity
// APIs.
//
// Resolution is three rate-limited requests: a SPARQL lookup of the item
// holding the IMDb id (the lowest item number wins when several claim
// it), an entity fetch for the item's external-id claims and English
// sitelink, and a SPARQL awards query that returns nomination and win
// statements with labels and years. Missing claims simply leave the
// corresponding CrossRefs field empty; a work with no Wikidata item at
// all reports metadata.ErrNotFound.
package wikidata
