// Package omdb provides the OMDb API client used as the primary title
// search.
//
// Lookup performs an exact title(+year) match and maps the payload onto
// the canonical MediaRecord; Search lists similar titles for the partial
// match fallback. The upstream service reports misses inside a 200
// response ("Response":"False"), cannot accept double quotes in queries,
// and uses "N/A" as a sentinel in numeric rating fields; all three quirks
// are normalized here so callers only see typed results and sentinel
// errors. Options allow tests to supply custom HTTP clients.
package omdb
