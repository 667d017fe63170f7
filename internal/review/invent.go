package review

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"movieguide/internal/metadata"
)

// Fixed responses for the two cases that need no creativity.
const (
	tooNewPlot = "This movie is so new that nobody has gotten around to writing a plot summary yet."
	xRatedPlot = "Plot? It's X-rated, it doesn't need a plot."
)

// Base candidate pools. Seeded fresh per invocation because record
// attributes extend them.
var genericPlotSeed = []string{
	"I have no idea what happens in this movie.",
	"I haven't seen this movie; I don't know anything else about it.",
	"This is one of those movies where there's nothing helpful printed on the back of the box.",
}

var genericPlotTail = []string{
	"In a world where there is no plot summary...",
	"This space intentionally left blank.",
}

// Genre-keyed one-liners appended to the generic pool.
var genrePlots = map[string]string{
	"Documentary": "It's a documentary. I'm guessing the plot is thin.",
	"Horror":      "Whatever happens, I'm guessing somebody doesn't make it to the end credits.",
	"Musical":     "There's probably a plot in between the songs.",
	"Western":     "Horses, hats, and presumably some kind of plot.",
}

// PlotInventor fabricates a synopsis when no real one is available. The
// randomness source and clock are injected so tests can pin the output.
type PlotInventor struct {
	rand *rand.Rand
	now  func() time.Time
}

// NewPlotInventor builds an inventor around the supplied randomness
// source. A nil source gets a time-seeded one; a nil clock gets time.Now.
func NewPlotInventor(rng *rand.Rand, now func() time.Time) *PlotInventor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &PlotInventor{rand: rng, now: now}
}

// Invent produces a plot line for a record with no synopsis.
func (p *PlotInventor) Invent(record *metadata.MediaRecord) string {
	if record.Year >= p.now().Year() {
		return tooNewPlot
	}
	if record.Certificate != nil && strings.Contains(record.Certificate.Rating, "X") {
		return xRatedPlot
	}

	generic := append([]string(nil), genericPlotSeed...)
	bad := []string{
		"It looks bad to me, but what do I know: I'm just a bot.",
		"Plot? I'm not sure this movie has a plot.",
		p.pick(generic) + " But it looks bad.",
	}
	good := []string{
		"People seem to like this movie. But writing plot summaries, apparently, not so much.",
		"I don't know if there's a plot, but I hear it's not a bad movie.",
		p.pick(generic) + " But it looks good.",
	}

	for _, genre := range record.Genres {
		if line, ok := genrePlots[genre]; ok {
			generic = append(generic, line)
		}
	}

	if len(record.Cast) > 8 {
		member := record.Cast[6+p.rand.Intn(len(record.Cast)-6)]
		var line string
		switch {
		case member.Name != "" && member.Character != "" && p.rand.Float64() < 0.25:
			line = fmt.Sprintf("Well, I know %s plays %s in it. I don't know anything else about it.",
				member.Name, member.Character)
		case member.Name != "":
			line = fmt.Sprintf("Hmm. Well, it has %s in it.", member.Name)
		}
		if line != "" {
			generic = append(generic, line)
			good = append(good, line+" Maybe it's good.")
		}
	}

	if len(record.Directors) == 1 && record.Directors[0].Name != "" {
		line := fmt.Sprintf("Directed by %s.", record.Directors[0].Name)
		if !strings.Contains(line, "M. Night Shyamalan") {
			line += " Who is not M. Night Shyamalan."
		}
		generic = append(generic, line)
		bad = append(bad, line+" Maybe that's a bad sign?")
	}

	generic = append(generic, genericPlotTail...)

	average := record.Rating.Average
	switch {
	case average > 0.1 && average < 3:
		return p.pick(bad)
	case average > 8:
		return p.pick(good)
	default:
		return p.pick(generic)
	}
}

func (p *PlotInventor) pick(pool []string) string {
	return pool[p.rand.Intn(len(pool))]
}
