package wikipedia

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Block is one heading-delimited run of flattened article text. The lead
// block has Level 0 and an empty Heading.
type Block struct {
	Level   int
	Heading string
	Body    string
}

// Article is the flattened plain-text model of one rendered page.
type Article struct {
	Blocks []Block
	Links  []string
}

// Section names whose body is excluded from the flattened text.
var skipSections = map[string]struct{}{
	"contents":       {},
	"references":     {},
	"see also":       {},
	"external links": {},
	"notes":          {},
}

// Block-level elements that are always chrome.
var skipTags = map[string]struct{}{
	"table":   {},
	"sup":     {},
	"caption": {},
	"style":   {},
	"script":  {},
}

// Container elements that participate in skip-depth tracking.
var nestTags = map[string]struct{}{
	"div":        {},
	"blockquote": {},
}

// Class markers that flag a container as chrome worth skipping.
var skipClasses = []string{
	"thumbcaption",
	"hatnote",
	"quotebox",
	"navbox",
	"infobox",
	"metadata",
	"mw-editsection",
}

var (
	collapseRE    = regexp.MustCompile(`[ \t\r\f\v]+`)
	editMarkerRE  = regexp.MustCompile(`\[\s*edit\s*\]`)
	hiddenStyleRE = regexp.MustCompile(`display\s*:\s*none`)
)

// leadSkipLevel suppresses everything before the first heading when lead
// skipping is requested; any heading level clears it.
const leadSkipLevel = 7

// FlattenOption configures Flatten.
type FlattenOption func(*textifier)

// WithSkipLead drops the introductory content before the first heading
// instead of retaining it as the level-0 block.
func WithSkipLead() FlattenOption {
	return func(t *textifier) {
		t.skipUntil = leadSkipLevel
	}
}

type textifier struct {
	blocks  []Block
	links   []string
	current Block

	skipDepth int // chrome nesting; close tags never drive it below zero
	skipUntil int // heading level that ends the current suppressed section
	inHeading int
	heading   strings.Builder
	body      strings.Builder
}

// Flatten converts rendered article markup into an Article. Malformed or
// unbalanced markup never produces an error; the tokenizer stream simply
// ends at the first unrecoverable position.
func Flatten(r io.Reader, opts ...FlattenOption) *Article {
	t := &textifier{}
	for _, opt := range opts {
		opt(t)
	}

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			t.flush()
			return &Article{Blocks: t.blocks, Links: t.links}
		case html.StartTagToken:
			t.startTag(z)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "br" || tag == "p" {
				t.newline()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			t.endTag(string(name))
		case html.TextToken:
			t.text(string(z.Text()))
		}
	}
}

func (t *textifier) startTag(z *html.Tokenizer) {
	name, hasAttr := z.TagName()
	tag := string(name)
	attrs := map[string]string{}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}

	switch {
	case tag == "a":
		// External links are collected even inside skipped regions.
		if strings.Contains(attrs["class"], "external") {
			if href := strings.TrimSpace(attrs["href"]); href != "" {
				t.links = append(t.links, href)
			}
		}
	case isSkipTag(tag):
		t.skipDepth++
	case isNestTag(tag):
		if t.skipDepth > 0 || chromeContainer(attrs) {
			t.skipDepth++
		}
	case tag == "p" || tag == "br":
		t.newline()
	case headingLevel(tag) > 0:
		level := headingLevel(tag)
		if level <= t.skipUntil {
			t.skipUntil = 0
		}
		t.inHeading = level
		t.heading.Reset()
	}
}

func (t *textifier) endTag(tag string) {
	switch {
	case isSkipTag(tag):
		if t.skipDepth > 0 {
			t.skipDepth--
		}
	case isNestTag(tag):
		if t.skipDepth > 0 {
			t.skipDepth--
		}
	case headingLevel(tag) > 0:
		if t.inHeading == 0 {
			return
		}
		heading := cleanHeading(t.heading.String())
		if _, stop := skipSections[strings.ToLower(heading)]; stop {
			t.skipUntil = t.inHeading
		}
		t.flush()
		t.current = Block{Level: t.inHeading, Heading: heading}
		t.inHeading = 0
	}
}

func (t *textifier) text(data string) {
	if t.inHeading > 0 {
		t.heading.WriteString(collapseRE.ReplaceAllString(data, " "))
		return
	}
	if t.skipDepth > 0 || t.skipUntil > 0 {
		return
	}
	t.body.WriteString(collapseRE.ReplaceAllString(data, " "))
}

func (t *textifier) newline() {
	if t.inHeading > 0 || t.skipDepth > 0 || t.skipUntil > 0 {
		return
	}
	t.body.WriteString("\n")
}

func (t *textifier) flush() {
	t.current.Body = t.body.String()
	t.body.Reset()
	if t.current.Heading != "" || strings.TrimSpace(t.current.Body) != "" || len(t.blocks) == 0 {
		t.blocks = append(t.blocks, t.current)
	}
	t.current = Block{}
}

// Paragraphs splits a block body into trimmed non-empty paragraphs.
func (b Block) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(b.Body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Text renders the whole article as markdown-style plain text, headings
// prefixed with #.
func (a *Article) Text() string {
	var sb strings.Builder
	for _, block := range a.Blocks {
		if block.Heading != "" {
			sb.WriteString("\n\n")
			sb.WriteString(strings.Repeat("#", block.Level))
			sb.WriteString(" ")
			sb.WriteString(block.Heading)
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(block.Body))
	}
	return strings.TrimSpace(sb.String())
}

func cleanHeading(s string) string {
	s = editMarkerRE.ReplaceAllString(s, "")
	return strings.TrimSpace(collapseRE.ReplaceAllString(s, " "))
}

func chromeContainer(attrs map[string]string) bool {
	class := attrs["class"]
	for _, marker := range skipClasses {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return hiddenStyleRE.MatchString(strings.ToLower(attrs["style"]))
}

func isSkipTag(tag string) bool {
	_, ok := skipTags[tag]
	return ok
}

func isNestTag(tag string) bool {
	_, ok := nestTags[tag]
	return ok
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
