package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWellFormedResponse(t *testing.T) {
	parser := NewResponseParser()

	title := "Council Approves Budget After Marathon Session"
	content := "The city council approved the annual budget late on Tuesday after nearly six hours of debate."

	parsed := parser.Parse("TITLE: " + title + "\nCONTENT: " + content)

	assert.Equal(t, title, parsed.Title)
	assert.Equal(t, content, parsed.Content)
}

func TestParseMarkersOnSingleLine(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("TITLE: Transit Strike Ends After One Week CONTENT: Bus and subway service resumed citywide early this morning following a tentative agreement.")

	assert.Equal(t, "Transit Strike Ends After One Week", parsed.Title)
	assert.Contains(t, parsed.Content, "Bus and subway service resumed")
}

func TestParseFallbackTitleFromFirstLines(t *testing.T) {
	parser := NewResponseParser()

	raw := "A Headline Without Markers\nThe rest of the text explains what happened in enough detail to stand on its own as content."

	parsed := parser.Parse(raw)

	assert.Equal(t, "A Headline Without Markers", parsed.Title)
	assert.Equal(t, raw, parsed.Content)
}

func TestParseFallbackSkipsLinesEndingInPeriod(t *testing.T) {
	parser := NewResponseParser()

	raw := "This line ends with a period.\nThis candidate line does not\nMore body text follows here to pad the content out past the minimum."

	parsed := parser.Parse(raw)
	assert.Equal(t, "This candidate line does not", parsed.Title)
}

func TestParseTitleHardCappedAtMaximum(t *testing.T) {
	parser := NewResponseParser()

	longTitle := strings.Repeat("Very Long Headline ", 20)
	parsed := parser.Parse("TITLE: " + longTitle + "\nCONTENT: " + strings.Repeat("Body text. ", 10))

	assert.LessOrEqual(t, len([]rune(parsed.Title)), 200)
}

func TestParseTooShortTitleGetsPlaceholder(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("TITLE: Hi\nCONTENT: " + strings.Repeat("Meaningful body text. ", 5))
	assert.Equal(t, fallbackTitle, parsed.Title)
}

func TestParseShortContentPrefixedWithTitle(t *testing.T) {
	parser := NewResponseParser()

	parsed := parser.Parse("TITLE: Quarterly Earnings Beat Forecasts\nCONTENT: Up 12%.")

	assert.True(t, strings.HasPrefix(parsed.Content, "Quarterly Earnings Beat Forecasts"))
	assert.Contains(t, parsed.Content, "Up 12%.")
}

func TestParseMissingContentMarkerUsesWholeText(t *testing.T) {
	parser := NewResponseParser()

	raw := "TITLE: Ferry Schedule Changes Announced\nThe harbor authority published a revised timetable taking effect next month."

	parsed := parser.Parse(raw)

	assert.Equal(t, "Ferry Schedule Changes Announced", parsed.Title)
	assert.Contains(t, parsed.Content, "revised timetable")
}
