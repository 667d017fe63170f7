package review

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"movieguide/internal/metadata"
	"movieguide/internal/metadata/wikipedia"
)

func fixedInventor() *PlotInventor {
	return NewPlotInventor(rand.New(rand.NewSource(1)), func() time.Time {
		return time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
}

func fullRecord() *metadata.MediaRecord {
	return &metadata.MediaRecord{
		Title: "Blade Runner",
		AKA:   "Der Blade Runner",
		Year:  1982,
		Genres: []string{
			"Sci-Fi", "Thriller",
		},
		Cast: []metadata.Person{
			{Name: "Harrison Ford", Character: "Deckard", Billing: 1},
			{Name: "Rutger Hauer", Character: "Batty", Billing: 2},
			{Name: "Sean Young", Character: "Rachael", Billing: 3},
			{Name: "Edward James Olmos", Character: "Gaff", Billing: 4},
			{Name: "M. Emmet Walsh", Character: "Bryant", Billing: 5},
		},
		Directors:   []metadata.Person{{Name: "Ridley Scott"}},
		Writers:     []metadata.Person{{Name: "Hampton Fancher"}, {Name: "David Peoples"}},
		Certificate: &metadata.Certificate{Rating: "R", Country: "USA"},
		RunningTime: 117,
		Rating:      metadata.Rating{Votes: 123456, Average: 8.1},
		Plot:        &metadata.Plot{Summary: "A blade runner must pursue replicants.", Attribution: "Someone"},
		IMDbID:      "tt0083658",
		ColorInfo:   "Color",
	}
}

func TestComposeFullRecord(t *testing.T) {
	composer := NewComposer("^I am a bot.", fixedInventor())
	text, err := composer.Compose(Input{
		Query:  metadata.Query{Title: "Blade Runner", Year: 1982},
		Record: fullRecord(),
		CrossRefs: &metadata.CrossRefs{
			WikipediaURL:      "https://en.wikipedia.org/w/index.php?title=Blade_Runner&action=render",
			RottenTomatoesURL: "https://www.rottentomatoes.com/m/blade_runner",
			Awards: metadata.Awards{
				Wins: []metadata.AwardEvent{{Award: "Hugo Award", Category: "Best Dramatic Presentation", Year: 1983}},
			},
		},
		Article: &wikipedia.Extract{
			SourceURL:       "https://en.wikipedia.org/wiki/Blade_Runner",
			CriticalSection: "Critical response",
			Critical:        "Critics praised its visuals.",
			Summary:         "Blade Runner is a 1982 film.",
		},
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	for _, want := range []string{
		"**[Blade Runner](https://www.imdb.com/title/tt0083658/)**",
		"[USA:R](https://en.wikipedia.org/wiki/Motion_Picture_Association_of_America_film_rating_system#Ratings)",
		"1 h 57 min",
		"a.k.a. **Der Blade Runner**",
		"Sci-Fi, Thriller",
		"Harrison Ford, Rutger Hauer, Sean Young, Edward James Olmos",
		"Director: Ridley Scott; Writers: Hampton Fancher, David Peoples",
		"(123,456 votes)",
		"> A blade runner must pursue replicants. *[by Someone]*",
		"**Critical response:**\n> Critics praised its visuals.",
		"1 wins.",
		"[Wikipedia](https://en.wikipedia.org/wiki/Blade_Runner)",
		"[Rotten Tomatoes](https://www.rottentomatoes.com/m/blade_runner)",
		"^I am a bot.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("review missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, filledStar) != 8 || strings.Count(text, emptyStar) != 2 {
		t.Errorf("wrong star count for 8.1:\n%s", text)
	}
	if strings.Contains(text, "M. Emmet Walsh") {
		t.Errorf("cast line not limited to four names:\n%s", text)
	}
}

func TestComposeSeparatorInvariants(t *testing.T) {
	record := &metadata.MediaRecord{
		Title:  "Obscurity",
		Year:   1931,
		IMDbID: "tt9999999",
	}
	composer := NewComposer("", fixedInventor())
	text, err := composer.Compose(Input{Record: record})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if strings.Contains(text, sectionSeparator+sectionSeparator) {
		t.Errorf("consecutive separators in:\n%s", text)
	}
	for _, section := range strings.Split(text, sectionSeparator) {
		if strings.TrimSpace(section) == "" {
			t.Errorf("whitespace-only section in:\n%s", text)
		}
	}
	if strings.HasSuffix(text, sectionSeparator) || strings.HasPrefix(text, sectionSeparator) {
		t.Errorf("dangling separator in:\n%s", text)
	}
}

func TestComposeUnknownRating(t *testing.T) {
	record := fullRecord()
	record.Rating = metadata.Rating{Votes: 0, Average: 0}
	composer := NewComposer("", fixedInventor())
	text, err := composer.Compose(Input{Record: record})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(text, unknownRating) {
		t.Errorf("zero-vote rating not rendered as unknown:\n%s", text)
	}
	if strings.Contains(text, filledStar) || strings.Contains(text, emptyStar) {
		t.Errorf("stars rendered for zero-vote rating:\n%s", text)
	}
}

func TestComposeInventsMissingPlot(t *testing.T) {
	record := fullRecord()
	record.Plot = nil
	composer := NewComposer("", fixedInventor())
	text, err := composer.Compose(Input{Record: record})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(text, "> *") {
		t.Errorf("invented plot not italicized:\n%s", text)
	}
}

func TestComposeNilRecord(t *testing.T) {
	composer := NewComposer("", fixedInventor())
	if _, err := composer.Compose(Input{Query: metadata.Query{Title: "Nothing"}}); err == nil {
		t.Fatal("expected error for nil record")
	}
}

func TestComposeNicolasCage(t *testing.T) {
	record := fullRecord()
	record.Cast[0].Name = "Nicolas Cage"
	composer := NewComposer("", fixedInventor())
	text, err := composer.Compose(Input{Record: record})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(text, "/r/OneTrueGod") {
		t.Errorf("Nicolas Cage not munged:\n%s", text)
	}
}

func TestComposeDisambiguation(t *testing.T) {
	composer := NewComposer("^bot", fixedInventor())
	text := composer.ComposeDisambiguation([]metadata.SearchResult{
		{Title: "Alien", Year: 1979, IMDbID: "tt0078748"},
		{Title: "Aliens", Year: 1986, IMDbID: "tt0090605"},
	})
	for _, want := range []string{
		"didn't find an exact match",
		"* [Alien (1979)](https://www.imdb.com/title/tt0078748/)",
		"* [Aliens (1986)](https://www.imdb.com/title/tt0090605/)",
		"^bot",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("disambiguation missing %q:\n%s", want, text)
		}
	}
	if composer.ComposeDisambiguation(nil) != "" {
		t.Error("expected empty disambiguation for no results")
	}
}

func TestFormatRunningTime(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{45, "45 min"},
		{60, "1 h 0 min"},
		{117, "1 h 57 min"},
		{200, "3 h 20 min"},
	}
	for _, tc := range cases {
		if got := formatRunningTime(tc.minutes); got != tc.want {
			t.Errorf("formatRunningTime(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestCertificateBadge(t *testing.T) {
	tv := certificateBadge(&metadata.Certificate{Rating: "TV-MA", Country: "USA"})
	if !strings.Contains(tv, "TV_Parental_Guidelines") {
		t.Errorf("TV rating not linked to TV guidelines: %q", tv)
	}
	if got := certificateBadge(&metadata.Certificate{Rating: "12A", Country: "UK"}); got != "" {
		t.Errorf("unexpected badge for non-US certificate: %q", got)
	}
	if got := certificateBadge(nil); got != "" {
		t.Errorf("unexpected badge for nil certificate: %q", got)
	}
}
