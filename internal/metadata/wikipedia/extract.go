package wikipedia

import (
	"regexp"
	"strings"
)

// Heading patterns that mark a critical-reception section.
var criticalHeadingRE = regexp.MustCompile(`(?i)^(critical|reception|reviews$|critics)`)

// A critical-reception paragraph worth quoting usually names a critic or
// aggregator; "eview" catches both Review and review mid-sentence.
var criticalKeywords = []string{
	"critic",
	"eview",
	"rotten tomatoes",
	"metacritic",
	"consensus",
	"roger ebert",
}

// A lead paragraph that describes the film rather than its release.
var (
	summaryRE        = regexp.MustCompile(`(?i)\b(is a|tells the story|depicts|follows|centers on|revolves around|portrays)\b`)
	summaryExcludeRE = regexp.MustCompile(`(?i)(premiere|box.office|released|grossed|opening weekend)`)
)

// Residue that indicates markup extraction leaked raw script content.
var scriptArtifacts = []string{
	"function(",
	"document.",
	"mw.loader",
	"googletag",
	".push(",
	"{{",
	"<script",
}

// Per-provider path patterns for cross-reference URL discovery.
var linkPatterns = []struct {
	provider string
	pattern  string
}{
	{"rottentomatoes", "rottentomatoes.com/m/"},
	{"metacritic", "metacritic.com/movie/"},
}

// CriticalExcerpt returns the name of the first critical-reception
// section and one quotable paragraph from it. The paragraph is the first
// one mentioning a critic or aggregator, else the section's first
// paragraph. Empty strings when the article has no such section.
func CriticalExcerpt(article *Article) (section, paragraph string) {
	for _, block := range article.Blocks {
		if block.Heading == "" || !criticalHeadingRE.MatchString(block.Heading) {
			continue
		}
		paragraphs := block.Paragraphs()
		if len(paragraphs) == 0 {
			return block.Heading, ""
		}
		for _, p := range paragraphs {
			lower := strings.ToLower(p)
			for _, keyword := range criticalKeywords {
				if strings.Contains(lower, keyword) {
					return block.Heading, sanitizeExcerpt(p)
				}
			}
		}
		return block.Heading, sanitizeExcerpt(paragraphs[0])
	}
	return "", ""
}

// SummaryExcerpt returns one paragraph from the article lead that reads
// like a description of the work, preferring sentences about the story
// over sentences about the release.
func SummaryExcerpt(article *Article) string {
	for _, block := range article.Blocks {
		if block.Level != 0 {
			break
		}
		paragraphs := block.Paragraphs()
		if len(paragraphs) == 0 {
			return ""
		}
		for _, p := range paragraphs {
			if summaryRE.MatchString(p) && !summaryExcludeRE.MatchString(p) {
				return sanitizeExcerpt(p)
			}
		}
		return sanitizeExcerpt(paragraphs[0])
	}
	return ""
}

// DiscoverAggregatorLinks scans the article's external links for known
// review aggregator URLs, recording the first match per provider.
func DiscoverAggregatorLinks(article *Article) map[string]string {
	found := map[string]string{}
	for _, link := range article.Links {
		for _, entry := range linkPatterns {
			if _, ok := found[entry.provider]; ok {
				continue
			}
			if strings.Contains(link, entry.pattern) {
				found[entry.provider] = link
			}
		}
	}
	return found
}

// sanitizeExcerpt rejects paragraphs carrying script-like residue; a
// quoted excerpt that leaked raw page internals is worse than no excerpt.
func sanitizeExcerpt(p string) string {
	lower := strings.ToLower(p)
	for _, artifact := range scriptArtifacts {
		if strings.Contains(lower, artifact) {
			return ""
		}
	}
	return p
}
