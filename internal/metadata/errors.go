package metadata

import "errors"

var (
	// ErrNotFound reports that a provider had no matching data. Expected
	// and frequent; non-fatal providers are skipped silently on it.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous reports that a provider returned multiple candidates
	// where exactly one was required. Treated exactly like ErrNotFound;
	// the pipeline never guesses.
	ErrAmbiguous = errors.New("ambiguous match")
)

// Missing reports whether err is one of the expected negative outcomes
// rather than a transport or decoding failure.
func Missing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguous)
}
