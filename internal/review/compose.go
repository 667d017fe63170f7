package review

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"movieguide/internal/metadata"
	"movieguide/internal/metadata/wikipedia"
)

const (
	sectionSeparator = "\n\n----\n\n"
	filledStar       = "&#9733;"
	emptyStar        = "&#9734;"
	unknownRating    = "Unknown; awaiting five votes"
)

// ErrNoMatch reports that the primary search failed and there is nothing
// to compose for this post.
var ErrNoMatch = errors.New("no match for query")

// Input carries the independently-sourced fragments for one post.
// Record is mandatory; CrossRefs and Article may be nil when their
// providers failed or were skipped.
type Input struct {
	Query     metadata.Query
	Record    *metadata.MediaRecord
	CrossRefs *metadata.CrossRefs
	Article   *wikipedia.Extract
}

// Composer assembles review comments.
type Composer struct {
	signature string
	inventor  *PlotInventor
}

// NewComposer builds a composer. The signature, when non-empty, is
// appended to every comment as its own section.
func NewComposer(signature string, inventor *PlotInventor) *Composer {
	if inventor == nil {
		inventor = NewPlotInventor(nil, nil)
	}
	return &Composer{signature: strings.TrimSpace(signature), inventor: inventor}
}

// Compose builds the full review text. Sections that came up empty are
// dropped entirely; the output never contains consecutive separators or
// whitespace-only sections.
func (c *Composer) Compose(in Input) (string, error) {
	if in.Record == nil {
		return "", fmt.Errorf("compose %q: %w", in.Query.String(), ErrNoMatch)
	}

	fragments := []string{
		c.vitalsFragment(in.Record),
		c.ratingPlotFragment(in.Record),
		c.criticalAwardsFragment(in.CrossRefs, in.Article),
		c.linksFragment(in.Record, in.CrossRefs, in.Article),
		c.signature,
	}

	kept := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed, ok := collapseBlank(fragment); ok {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sectionSeparator), nil
}

// ComposeDisambiguation builds the comment for a near-miss: no exact
// match, but the search turned up similar titles.
func (c *Composer) ComposeDisambiguation(results []metadata.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Sorry, I didn't find an exact match. Similar titles include:\n\n")
	for _, result := range results {
		if result.Year > 0 {
			fmt.Fprintf(&sb, "* [%s (%d)](%s)\n", escapeMarkdown(result.Title), result.Year, result.IMDbURL())
		} else {
			fmt.Fprintf(&sb, "* [%s](%s)\n", escapeMarkdown(result.Title), result.IMDbURL())
		}
	}
	if c.signature != "" {
		sb.WriteString(sectionSeparator)
		sb.WriteString(c.signature)
	}
	return strings.TrimSpace(sb.String())
}

// vitalsFragment renders title, certificate badge, color info, running
// time, alternate title, genres, and credits.
func (c *Composer) vitalsFragment(record *metadata.MediaRecord) string {
	var extras []string
	if badge := certificateBadge(record.Certificate); badge != "" {
		extras = append(extras, badge)
	}
	if record.ColorInfo != "" {
		extras = append(extras, escapeMarkdown(record.ColorInfo))
	}
	if record.RunningTime > 0 {
		extras = append(extras, formatRunningTime(record.RunningTime))
	}

	var sb strings.Builder
	sb.WriteString("**[" + escapeMarkdown(record.Title) + "](" + record.IMDbURL() + ")**")
	if len(extras) > 0 {
		sb.WriteString(" [" + strings.Join(extras, ", ") + "]")
	}
	sb.WriteString("    \n")
	if record.AKA != "" {
		sb.WriteString("&nbsp;&nbsp;&nbsp; a.k.a. **" + escapeMarkdown(record.AKA) + "**    \n")
	}

	if len(record.Genres) > 0 {
		escaped := make([]string, 0, len(record.Genres))
		for _, genre := range record.Genres {
			escaped = append(escaped, escapeMarkdown(genre))
		}
		sb.WriteString(strings.Join(escaped, ", "))
	} else {
		sb.WriteString("Unclassified")
	}
	sb.WriteString("\n\n")
	sb.WriteString(creditsLines(record))
	return sb.String()
}

// creditsLines renders the top-billed cast and the director/writer line.
func creditsLines(record *metadata.MediaRecord) string {
	var sb strings.Builder
	if len(record.Cast) > 0 {
		sb.WriteString(joinNames(record.Cast) + "    \n")
	}
	if len(record.Directors) > 0 {
		label := "Director"
		if len(record.Directors) > 1 {
			label = "Directors"
		}
		sb.WriteString(label + ": " + joinNames(record.Directors))
	}
	if len(record.Writers) > 0 {
		if len(record.Directors) > 0 {
			sb.WriteString("; ")
		}
		label := "Writer"
		if len(record.Writers) > 1 {
			label = "Writers"
		}
		sb.WriteString(label + ": " + joinNames(record.Writers))
	}
	return sb.String()
}

func joinNames(people []metadata.Person) string {
	limit := len(people)
	if limit > 4 {
		limit = 4
	}
	names := make([]string, 0, limit)
	for _, person := range people[:limit] {
		names = append(names, mungeName(person.Name))
	}
	return strings.Join(names, ", ")
}

// ratingPlotFragment renders the star rating and the plot excerpt, or an
// invented one when no synopsis exists.
func (c *Composer) ratingPlotFragment(record *metadata.MediaRecord) string {
	var sb strings.Builder
	sb.WriteString("**IMDb user rating:** " + starRating(record.Rating) + "\n")
	if record.Plot != nil && record.Plot.Summary != "" {
		sb.WriteString("> " + escapeMarkdown(stripQV(record.Plot.Summary)))
		if record.Plot.Attribution != "" {
			sb.WriteString(" *[by " + escapeMarkdown(record.Plot.Attribution) + "]*")
		}
	} else {
		sb.WriteString("> *" + c.inventor.Invent(record) + "*")
	}
	return sb.String()
}

// starRating renders round(average) filled stars of ten. A rating backed
// by zero votes is unknown, not bad.
func starRating(rating metadata.Rating) string {
	if !rating.Known() {
		return unknownRating
	}
	filled := int(math.Round(rating.Average))
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat(filledStar, filled) + strings.Repeat(emptyStar, 10-filled) +
		fmt.Sprintf(" %s/10 (%s votes)",
			strconv.FormatFloat(rating.Average, 'f', -1, 64), groupedNumber(rating.Votes))
}

// criticalAwardsFragment concatenates the awards summary and the
// encyclopedia excerpt. Omitted entirely when both are absent.
func (c *Composer) criticalAwardsFragment(refs *metadata.CrossRefs, article *wikipedia.Extract) string {
	var parts []string
	if refs != nil {
		if summary := summarizeAwards(refs.Awards); summary != "" {
			parts = append(parts, "**Awards:**\n"+summary)
		}
	}
	if article != nil && article.Critical != "" {
		section := article.CriticalSection
		if section == "" {
			section = "Critical response"
		}
		quote := "**" + escapeMarkdown(section) + ":**\n> " + escapeMarkdown(article.Critical)
		if article.SourceURL != "" {
			quote += " *([Wikipedia](" + article.SourceURL + "))*"
		}
		parts = append(parts, quote)
	}
	return strings.Join(parts, "\n\n")
}

// linksFragment lists every resolved provider URL in fixed priority
// order. Omitted when nothing resolved beyond nothing at all.
func (c *Composer) linksFragment(record *metadata.MediaRecord, refs *metadata.CrossRefs, article *wikipedia.Extract) string {
	type provider struct {
		name string
		url  string
	}
	providers := []provider{
		{"IMDb", record.IMDbURL()},
	}
	if refs != nil {
		wikipediaURL := ""
		if article != nil && article.SourceURL != "" {
			wikipediaURL = article.SourceURL
		} else if refs.WikipediaURL != "" {
			wikipediaURL = wikipedia.DisplayURL(refs.WikipediaURL)
		}
		rottenTomatoes := refs.RottenTomatoesURL
		metacritic := refs.MetacriticURL
		if article != nil {
			if rottenTomatoes == "" {
				rottenTomatoes = article.RottenTomatoesURL
			}
			if metacritic == "" {
				metacritic = article.MetacriticURL
			}
		}
		providers = append(providers,
			provider{"Wikipedia", wikipediaURL},
			provider{"Rotten Tomatoes", rottenTomatoes},
			provider{"Metacritic", metacritic},
			provider{"Netflix", refs.NetflixURL},
		)
	}

	var links []string
	for _, p := range providers {
		if p.url != "" {
			links = append(links, "["+p.name+"]("+p.url+")")
		}
	}
	if len(links) == 0 {
		return ""
	}
	return "More info at " + strings.Join(links, ", ") + "."
}

// certificateBadge maps a country-specific classification onto a display
// label carrying a reference link. Unrecognized countries render nothing.
func certificateBadge(cert *metadata.Certificate) string {
	if cert == nil {
		return ""
	}
	switch cert.Country {
	case "USA":
		href := "https://en.wikipedia.org/wiki/Motion_Picture_Association_of_America_film_rating_system#Ratings"
		if strings.HasPrefix(cert.Rating, "TV") {
			href = "https://en.wikipedia.org/wiki/TV_Parental_Guidelines#Ratings"
		}
		return "[USA:" + escapeMarkdown(cert.Rating) + "](" + href + ")"
	default:
		return ""
	}
}

// formatRunningTime renders minutes as "H h M min", or "M min" under an
// hour.
func formatRunningTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}
