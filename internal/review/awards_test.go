package review

import (
	"strings"
	"testing"

	"movieguide/internal/metadata"
)

func TestSummarizeAwardsMajor(t *testing.T) {
	summary := summarizeAwards(metadata.Awards{
		Nominations: []metadata.AwardEvent{
			{Award: "Academy Award", Category: "Best Picture", Year: 2020},
			{Award: "Academy Award", Category: "Best Director", Year: 2020},
		},
		Wins: []metadata.AwardEvent{
			{Award: "Academy Award", Category: "Best Director", Year: 2020},
		},
	})
	if !strings.HasPrefix(summary, "* **2020 Academy Award**: ") {
		t.Fatalf("wrong edition line: %q", summary)
	}
	if !strings.Contains(summary, "*Best Picture* (nominated)") {
		t.Errorf("nomination-only category not italicized: %q", summary)
	}
	if !strings.Contains(summary, "Best Director") || strings.Contains(summary, "*Best Director*") {
		t.Errorf("won category should render plain: %q", summary)
	}
}

func TestSummarizeAwardsRenames(t *testing.T) {
	cases := []struct {
		award string
		want  string
	}{
		{"Oscar", "Academy Award"},
		{"Golden Globes", "Golden Globe Award"},
		{"BAFTA Film Award", "BAFTA Award"},
	}
	for _, tc := range cases {
		summary := summarizeAwards(metadata.Awards{
			Wins: []metadata.AwardEvent{{Award: tc.award, Category: "Best Film", Year: 1999}},
		})
		if !strings.Contains(summary, tc.want) {
			t.Errorf("award %q not renamed to %q: %q", tc.award, tc.want, summary)
		}
	}
}

func TestSummarizeAwardsSplitsOnFor(t *testing.T) {
	summary := summarizeAwards(metadata.Awards{
		Wins: []metadata.AwardEvent{{Award: "Academy Award for Best Picture", Year: 1995}},
	})
	want := "* **1995 Academy Award**: Best Picture"
	if summary != want {
		t.Errorf("summarizeAwards = %q, want %q", summary, want)
	}
}

func TestSummarizeAwardsMinorOnly(t *testing.T) {
	summary := summarizeAwards(metadata.Awards{
		Nominations: []metadata.AwardEvent{
			{Award: "Saturn Award", Category: "Best Science Fiction Film", Year: 1983},
		},
		Wins: []metadata.AwardEvent{
			{Award: "Hugo Award", Category: "Best Dramatic Presentation", Year: 1983},
			{Award: "Saturn Award", Category: "Best Director", Year: 1983},
		},
	})
	if summary != "2 wins and 1 nominations." {
		t.Errorf("minor-only summary = %q", summary)
	}
}

func TestSummarizeAwardsMixed(t *testing.T) {
	summary := summarizeAwards(metadata.Awards{
		Nominations: []metadata.AwardEvent{
			{Award: "Golden Globe", Category: "Best Motion Picture", Year: 2008},
			{Award: "Saturn Award", Category: "Best Fantasy Film", Year: 2008},
		},
	})
	lines := strings.Split(summary, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected edition line plus minor line, got %q", summary)
	}
	if lines[1] != "Another 1 nominations." {
		t.Errorf("minor line = %q", lines[1])
	}
}

func TestSummarizeAwardsEmpty(t *testing.T) {
	if got := summarizeAwards(metadata.Awards{}); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}
