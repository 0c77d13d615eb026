// Package parser turns free-form AI text into list items and link segments.
//
// Every function is idempotent on its own output: feeding the String form of
// a parsed item back into ParseItem yields the same item.
package parser

import (
	"regexp"
	"strings"
)

var (
	ordinalRe  = regexp.MustCompile(`(?:^|\s)\d+\.\s+`)
	bulletRe   = regexp.MustCompile(`^(?:[-*•]\s+)+`)
	surroundRe = regexp.MustCompile(`^[#*\s]+|[*\s]+$`)
	headingRe  = regexp.MustCompile(`(?m)^([ \t]*)#+[ \t]*`)

	bracketItemRe = regexp.MustCompile(`^\[([^\]]+)\]\((https?://[^\s()]+)\)[.\s]*$`)
	parenItemRe   = regexp.MustCompile(`^(.+?)\s*\((https?://[^\s()]+)\)[.\s]*$`)

	linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s<>\[\]{}()"']+)\)\**|(https?://[^\s<>\[\]{}()"']+\b)`)
)

// Segment is a run of plain text or a link.
type Segment struct {
	Text string
	URL  string
}

// IsLink reports whether the segment carries a URL.
func (s Segment) IsLink() bool { return s.URL != "" }

// Item is one logical entry of a parsed list.
type Item struct {
	// Text is the display text. For a whole-item link it is the link text,
	// otherwise the decoration-free item text.
	Text string
	// URL is the item link, empty for plain items. For items with links
	// embedded in a sentence it is the first link.
	URL string
	// Segments preserves the original order of text and links.
	Segments []Segment
}

// IsLink reports whether the item has a link.
func (i Item) IsLink() bool { return i.URL != "" }

// String renders the item in a shape ParseItem reads back unchanged: plain
// text, "<text> (<url>)" for a whole-item link, and "[text](url)" or the bare
// URL for links inside a sentence.
func (i Item) String() string {
	if i.URL == "" {
		return i.Text
	}
	if len(i.Segments) <= 1 {
		return i.Text + " (" + i.URL + ")"
	}

	var b strings.Builder
	for _, seg := range i.Segments {
		switch {
		case !seg.IsLink(), seg.Text == seg.URL:
			b.WriteString(seg.Text)
		default:
			b.WriteString("[" + seg.Text + "](" + seg.URL + ")")
		}
	}
	return strings.TrimSpace(b.String())
}

// Split breaks a numbered or freeform list into trimmed items with ordinal
// markers removed. Empty items produced by leading or trailing delimiters are
// dropped. Text without ordinals is split by line, stripping bullet markers.
func Split(text string) []string {
	var parts []string
	if ordinalRe.MatchString(text) {
		parts = ordinalRe.Split(text, -1)
	} else {
		parts = strings.Split(text, "\n")
	}

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(part), ""))
		if part == "" {
			continue
		}
		items = append(items, part)
	}

	return items
}

// ParseList splits text into items and parses each of them.
func ParseList(text string) []Item {
	parts := Split(text)
	items := make([]Item, 0, len(parts))
	for _, part := range parts {
		items = append(items, ParseItem(part))
	}
	return items
}

// ParseItem extracts a (text, URL) pair from "<text> (<url>)" or
// "[<text>](<url>)". Other items keep their text and links in order, with
// emphasis and heading markers stripped from the text.
func ParseItem(s string) Item {
	trimmed := strings.TrimSpace(surroundRe.ReplaceAllString(s, ""))

	if m := bracketItemRe.FindStringSubmatch(trimmed); m != nil {
		return linkItem(m[1], m[2])
	}

	if m := parenItemRe.FindStringSubmatch(trimmed); m != nil {
		return linkItem(m[1], m[2])
	}

	segments := Segments(s)
	item := Item{Segments: segments}

	var text strings.Builder
	for _, seg := range segments {
		text.WriteString(seg.Text)
		if seg.IsLink() && item.URL == "" {
			item.URL = seg.URL
		}
	}
	item.Text = strings.TrimSpace(text.String())

	if !item.IsLink() {
		item.Segments = []Segment{{Text: item.Text}}
	}

	return item
}

func linkItem(text, url string) Item {
	text = strings.TrimSpace(Strip(text))
	return Item{
		Text:     text,
		URL:      url,
		Segments: []Segment{{Text: text, URL: url}},
	}
}

// Segments splits text into plain runs and links, preserving order. Both
// "[text](url)" links and bare URLs are recognised. Text without links comes
// back as a single plain segment.
func Segments(text string) []Segment {
	var segments []Segment
	last := 0

	for _, m := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > last {
			segments = appendPlain(segments, text[last:start])
		}

		if m[2] >= 0 {
			segments = append(segments, Segment{
				Text: Strip(text[m[2]:m[3]]),
				URL:  text[m[4]:m[5]],
			})
		} else {
			url := text[m[6]:m[7]]
			segments = append(segments, Segment{Text: url, URL: url})
		}

		last = end
	}

	if last < len(text) {
		segments = appendPlain(segments, text[last:])
	}

	if len(segments) == 0 {
		return []Segment{{Text: Strip(text)}}
	}

	return segments
}

func appendPlain(segments []Segment, s string) []Segment {
	s = Strip(s)
	if s == "" {
		return segments
	}
	return append(segments, Segment{Text: s})
}

// Strip removes markdown emphasis and heading markers. A "#" only counts as
// a heading marker at the start of a line, so "C#" survives.
func Strip(s string) string {
	return headingRe.ReplaceAllString(strings.ReplaceAll(s, "*", ""), "$1")
}

// BreakSentences puts every sentence on its own line.
func BreakSentences(s string) string {
	return strings.ReplaceAll(s, ". ", ".\n")
}
