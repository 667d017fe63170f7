package titleparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultNoiseVocabulary lists the regex fragments stripped from post
// titles before any other parsing. Quality and source tags carry no signal
// for identification and frequently confuse the year search.
var DefaultNoiseVocabulary = []string{
	`TV`,
	`HD`,
	`Full(?: Movie| HD)?`,
	`Fixed`,
	`(?:1080|720)[pi]`,
	`\d+x\d+`,
	`YouTube`,
	`Part *[0-9/]+`,
	`[a-z]* *sub(?:title)?s?`,
}

var (
	spaceRE = regexp.MustCompile(`\s+`)
	// Leftmost bracketed 4-digit year in 1880-2029. Everything before the
	// bracket is the candidate description; everything from it onward is
	// discarded.
	yearRE = regexp.MustCompile(`^(.*?) *[\[\({] *(18[89]\d|19\d\d|20[012]\d) *[\]\)}]`)
	// Bracketed asides, trailing colon segments, and dangling punctuation.
	// Applied to a fixed point because one removal can expose another.
	stripRE  = regexp.MustCompile(`\([^\)]*\)|\[[^\]]*\]|\{[^}]*\}|:.*| *[-,;] *$|^ *[-,;] *`)
	quotedRE = regexp.MustCompile(`"(.+?)"`)
)

// Candidate is the normalized query extracted from a raw post title. A
// Year of zero means no release year was found. An empty Title means the
// input was degenerate and there is no candidate to look up.
type Candidate struct {
	Title string
	Year  int
}

// Extractor strips noise from post titles and extracts a title/year pair.
type Extractor struct {
	noise *regexp.Regexp
}

// New compiles an extractor for the given noise vocabulary. Each entry is
// a regex fragment; they are matched case-insensitively anywhere in the
// title, any number of times.
func New(vocabulary []string) (*Extractor, error) {
	if len(vocabulary) == 0 {
		vocabulary = DefaultNoiseVocabulary
	}
	pattern := "(?i)(?:" + strings.Join(vocabulary, "|") + ")"
	noise, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile noise vocabulary: %w", err)
	}
	return &Extractor{noise: noise}, nil
}

// MustDefault returns an extractor for the default noise vocabulary.
func MustDefault() *Extractor {
	e, err := New(nil)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract parses a raw post title into a candidate title and year.
//
// The passes run in strict order: whitespace collapse, noise-vocabulary
// strip, bracketed-year search (keeping only the prefix), fixed-point
// removal of remaining bracketed asides, then quoted-title preference.
func (e *Extractor) Extract(raw string) Candidate {
	desc := strings.TrimSpace(spaceRE.ReplaceAllString(raw, " "))
	desc = strings.TrimSpace(e.noise.ReplaceAllString(desc, ""))

	var year int
	if m := yearRE.FindStringSubmatch(desc); m != nil {
		year, _ = strconv.Atoi(m[2])
		desc = m[1]
	}

	for {
		next := stripRE.ReplaceAllString(desc, "")
		if next == desc {
			break
		}
		desc = next
	}
	desc = strings.TrimSpace(desc)

	title := desc
	if m := quotedRE.FindStringSubmatch(desc); m != nil {
		title = m[1]
	}
	return Candidate{Title: strings.TrimSpace(title), Year: year}
}
