package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "numbered lines",
			in:   "1. Google Data Analytics (https://coursera.org/x)\n2. AWS Cloud Practitioner",
			want: []string{"Google Data Analytics (https://coursera.org/x)", "AWS Cloud Practitioner"},
		},
		{
			name: "numbered on one line",
			in:   "1. Alpha 2. Beta 3. Gamma",
			want: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name: "leading and trailing delimiters",
			in:   "\n\n1. Alpha\n\n2. Beta\n\n",
			want: []string{"Alpha", "Beta"},
		},
		{
			name: "decimals are not ordinals",
			in:   "1. Python 3.12 Essentials\n2. Go 1.24 in Practice",
			want: []string{"Python 3.12 Essentials", "Go 1.24 in Practice"},
		},
		{
			name: "freeform bullets",
			in:   "- Alpha\n* Beta\n\n• Gamma",
			want: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name: "single plain item",
			in:   "AWS Cloud Practitioner",
			want: []string{"AWS Cloud Practitioner"},
		},
		{
			name: "empty",
			in:   "  \n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestParseListCertifications(t *testing.T) {
	items := ParseList("1. Google Data Analytics (https://coursera.org/x)\n2. AWS Cloud Practitioner")

	require.Len(t, items, 2)

	assert.True(t, items[0].IsLink())
	assert.Equal(t, "Google Data Analytics", items[0].Text)
	assert.Equal(t, "https://coursera.org/x", items[0].URL)

	assert.False(t, items[1].IsLink())
	assert.Equal(t, "AWS Cloud Practitioner", items[1].Text)
	assert.Empty(t, items[1].URL)
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantText string
		wantURL  string
		segments []Segment
	}{
		{
			name:     "paren link",
			in:       "Search on LinkedIn (https://www.linkedin.com/jobs/search/?keywords=Go)",
			wantText: "Search on LinkedIn",
			wantURL:  "https://www.linkedin.com/jobs/search/?keywords=Go",
			segments: []Segment{{Text: "Search on LinkedIn", URL: "https://www.linkedin.com/jobs/search/?keywords=Go"}},
		},
		{
			name:     "paren link with bold text and trailing period",
			in:       "**Google Cloud Digital Leader** (https://cloud.google.com/learn).",
			wantText: "Google Cloud Digital Leader",
			wantURL:  "https://cloud.google.com/learn",
			segments: []Segment{{Text: "Google Cloud Digital Leader", URL: "https://cloud.google.com/learn"}},
		},
		{
			name:     "parenthesised words before the link",
			in:       "Meta Front-End (Coursera) (https://coursera.org/meta)",
			wantText: "Meta Front-End (Coursera)",
			wantURL:  "https://coursera.org/meta",
			segments: []Segment{{Text: "Meta Front-End (Coursera)", URL: "https://coursera.org/meta"}},
		},
		{
			name:     "bracket link",
			in:       "[CompTIA Security+](https://comptia.org/sec)",
			wantText: "CompTIA Security+",
			wantURL:  "https://comptia.org/sec",
			segments: []Segment{{Text: "CompTIA Security+", URL: "https://comptia.org/sec"}},
		},
		{
			name:     "bare url mid sentence keeps order",
			in:       "Start at https://example.com/a then apply.",
			wantText: "Start at https://example.com/a then apply.",
			wantURL:  "https://example.com/a",
			segments: []Segment{
				{Text: "Start at "},
				{Text: "https://example.com/a", URL: "https://example.com/a"},
				{Text: " then apply."},
			},
		},
		{
			name:     "bracket link mid sentence strips decoration",
			in:       "Read **[the guide](https://example.com/g)** before the *exam*",
			wantText: "Read the guide before the exam",
			wantURL:  "https://example.com/g",
			segments: []Segment{
				{Text: "Read "},
				{Text: "the guide", URL: "https://example.com/g"},
				{Text: " before the exam"},
			},
		},
		{
			name:     "no match returns plain text",
			in:       "AWS Cloud Practitioner",
			wantText: "AWS Cloud Practitioner",
			segments: []Segment{{Text: "AWS Cloud Practitioner"}},
		},
		{
			name:     "heading markers stripped",
			in:       "## Focus on SQL",
			wantText: "Focus on SQL",
			segments: []Segment{{Text: "Focus on SQL"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ParseItem(tt.in)
			assert.Equal(t, tt.wantText, item.Text)
			assert.Equal(t, tt.wantURL, item.URL)
			assert.Equal(t, tt.segments, item.Segments)
		})
	}
}

func TestParseItemIdempotent(t *testing.T) {
	inputs := []string{
		"AWS Cloud Practitioner",
		"Google Data Analytics (https://coursera.org/x)",
		"[CompTIA Security+](https://comptia.org/sec)",
		"Start at https://example.com/a then apply.",
		"Read [the guide](https://x.io/g) first.",
		"Compare [A](https://a.io) with https://b.io today",
	}

	for _, in := range inputs {
		first := ParseItem(in)
		second := ParseItem(first.String())
		assert.Equal(t, first, second, in)
	}
}

func TestSplitIdempotent(t *testing.T) {
	first := Split("1. Alpha\n2. Beta (https://b.io)")
	for _, item := range first {
		assert.Equal(t, []string{item}, Split(item))
	}
}

func TestSegmentsWithoutLinks(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "plain words"}}, Segments("plain words"))
	assert.Equal(t, []Segment{{Text: ""}}, Segments(""))
}

func TestBreakSentences(t *testing.T) {
	assert.Equal(t, "First.\nSecond.\nThird.", BreakSentences("First. Second. Third."))
	assert.Equal(t, "v1.2 is out", BreakSentences("v1.2 is out"))
}

func TestEmbeddedLinkKeepsURLThroughString(t *testing.T) {
	item := ParseItem("Read [the guide](https://x.io/g) first.")
	require.Len(t, item.Segments, 3)
	assert.Equal(t, "Read the guide first.", item.Text)
	assert.Equal(t, "Read [the guide](https://x.io/g) first.", item.String())
	assert.Equal(t, "https://x.io/g", ParseItem(item.String()).URL)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "**Bold** move", want: "Bold move"},
		{in: "## Top picks", want: "Top picks"},
		{in: "  # Indented", want: "  Indented"},
		{in: "C# Developer", want: "C# Developer"},
		{in: "line one\n### line two", want: "line one\nline two"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Strip(tt.in), tt.in)
	}
}

func TestParseItemKeepsSharpInNames(t *testing.T) {
	item := ParseItem("C# Developer jobs (https://jobs.example.com/csharp)")
	assert.Equal(t, "C# Developer jobs", item.Text)
	assert.Equal(t, "https://jobs.example.com/csharp", item.URL)
}
