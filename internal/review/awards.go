package review

import (
	"fmt"
	"sort"
	"strings"

	"movieguide/internal/metadata"
)

// Canonical names for awards that providers label inconsistently.
var awardRenames = map[string]string{
	"Oscar":                       "Academy Award",
	"Academy Awards":              "Academy Award",
	"Golden Globe":                "Golden Globe Award",
	"Golden Globes":               "Golden Globe Award",
	"BAFTA":                       "BAFTA Award",
	"BAFTA Film Award":            "BAFTA Award",
	"Primetime Emmy":              "Primetime Emmy Award",
	"Screen Actors Guild Awards":  "Screen Actors Guild Award",
	"Cannes Film Festival Awards": "Palme d'Or",
}

// Awards warranting individual display; everything else is folded into
// an aggregate count.
var majorAwards = map[string]struct{}{
	"Academy Award":             {},
	"Golden Globe Award":        {},
	"BAFTA Award":               {},
	"Palme d'Or":                {},
	"Primetime Emmy Award":      {},
	"Screen Actors Guild Award": {},
}

type awardStatus struct {
	nominated bool
	won       bool
}

// summarizeAwards renders award data as a markdown fragment: one bulleted
// line per major-award edition, then an aggregate line for everything
// minor. Empty string when there is nothing to say.
func summarizeAwards(awards metadata.Awards) string {
	entries := map[string]map[string]*awardStatus{}
	minorNominations := 0
	minorWins := 0

	record := func(event metadata.AwardEvent, won bool) {
		name, category := splitAward(event)
		if _, major := majorAwards[name]; !major {
			if won {
				minorWins++
			} else {
				minorNominations++
			}
			return
		}
		key := name
		if event.Year > 0 {
			key = fmt.Sprintf("%d %s", event.Year, name)
		}
		if entries[key] == nil {
			entries[key] = map[string]*awardStatus{}
		}
		status := entries[key][category]
		if status == nil {
			status = &awardStatus{}
			entries[key][category] = status
		}
		if won {
			status.won = true
		} else {
			status.nominated = true
		}
	}

	for _, event := range awards.Nominations {
		record(event, false)
	}
	for _, event := range awards.Wins {
		record(event, true)
	}

	minorLine := summarizeMinor(minorWins, minorNominations, len(entries) > 0)
	if len(entries) == 0 {
		return minorLine
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var lines []string
	for _, key := range keys {
		lines = append(lines, "* **"+escapeMarkdown(key)+"**"+categoriesLine(entries[key]))
	}
	if minorLine != "" {
		lines = append(lines, minorLine)
	}
	return strings.Join(lines, "\n")
}

// splitAward canonicalizes an award name, splitting "Award for Category"
// payloads on the first " for " when the event carries no category of its
// own.
func splitAward(event metadata.AwardEvent) (name, category string) {
	name = strings.TrimSpace(event.Award)
	category = strings.TrimSpace(event.Category)
	if category == "" {
		if idx := strings.Index(name, " for "); idx >= 0 {
			category = strings.TrimSpace(name[idx+len(" for "):])
			name = strings.TrimSpace(name[:idx])
		}
	}
	if canonical, ok := awardRenames[name]; ok {
		name = canonical
	}
	return name, category
}

func categoriesLine(categories map[string]*awardStatus) string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		status := categories[name]
		switch {
		case name == "" && status.won:
			parts = append(parts, "won")
		case name == "":
			parts = append(parts, "*nominated*")
		case status.won:
			parts = append(parts, escapeMarkdown(name))
		default:
			parts = append(parts, "*"+escapeMarkdown(name)+"* (nominated)")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return ": " + strings.Join(parts, ", ")
}

func summarizeMinor(wins, nominations int, hasMajor bool) string {
	if wins == 0 && nominations == 0 {
		return ""
	}
	prefix := ""
	if hasMajor {
		prefix = "Another "
	}
	switch {
	case wins > 0 && nominations > 0:
		return fmt.Sprintf("%s%d wins and %d nominations.", prefix, wins, nominations)
	case wins > 0:
		return fmt.Sprintf("%s%d wins.", prefix, wins)
	default:
		return fmt.Sprintf("%s%d nominations.", prefix, nominations)
	}
}
