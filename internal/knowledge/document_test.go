package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHeader(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"simple header", "RETURNS POLICY:", true},
		{"header with digits", "TOP 10 QUESTIONS:", true},
		{"header with ampersand", "SHIPPING & DELIVERY:", true},
		{"indented header", "  WARRANTY:", true},
		{"lowercase", "returns policy:", false},
		{"no colon", "RETURNS POLICY", false},
		{"separator line", "----------:", false},
		{"mixed case", "Returns Policy:", false},
		{"body line", "- Warranty period: 24 Months", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsHeader(tc.line))
		})
	}
}

func TestParseSections(t *testing.T) {
	text := "intro line\n" +
		"TABLET:\n" +
		"- Warranty period: 24 Months\n" +
		"LAPTOP:\n" +
		"- Warranty period: 24 Months\n" +
		"- Extended cover available\n"

	sections := ParseSections(text)
	require.Len(t, sections, 2)

	assert.Equal(t, "TABLET:", sections[0].Header)
	assert.Equal(t, []string{"- Warranty period: 24 Months"}, sections[0].Lines)

	assert.Equal(t, "LAPTOP:", sections[1].Header)
	assert.Len(t, sections[1].Lines, 2)
}

func TestParseSections_TrailingNewline(t *testing.T) {
	sections := ParseSections("TABLET:\n- Warranty period: 24 Months\n")
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"- Warranty period: 24 Months"}, sections[0].Lines)
	assert.Equal(t, "- Warranty period: 24 Months", sections[0].Body())
}

func TestParseSections_NoHeaders(t *testing.T) {
	sections := ParseSections("just some text\nwith no headers at all\n")
	assert.Empty(t, sections)
}

func TestQAEntries(t *testing.T) {
	text := "Q: How do I return an item?\n" +
		"A: Request a pickup from the My Orders page.\n" +
		"Keep the original packaging ready.\n" +
		"\n" +
		"Q: Is return pickup free?\n" +
		"A: Yes, pickups are free for all items.\n"

	doc := NewDocument("returns", text)
	entries := doc.QAEntries()
	require.Len(t, entries, 2)

	// Continuation lines join the answer with single spaces.
	assert.Equal(t, "How do I return an item?", entries[0].Question)
	assert.Equal(t, "Request a pickup from the My Orders page. Keep the original packaging ready.", entries[0].Answer)

	assert.Equal(t, "Is return pickup free?", entries[1].Question)
	assert.Equal(t, "Yes, pickups are free for all items.", entries[1].Answer)
}

func TestQAEntries_QuestionsAboutMarker(t *testing.T) {
	text := "QUESTIONS ABOUT TRACKING:\n" +
		"Use the tracking link from your dispatch email.\n" +
		"\n"

	doc := NewDocument("orders", text)
	entries := doc.QAEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "questions about tracking", entries[0].Question)
	assert.Equal(t, "Use the tracking link from your dispatch email.", entries[0].Answer)
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("First sentence. Second one! Third? ")
	assert.Equal(t, []string{"First sentence", "Second one", "Third"}, sentences)
}

func TestNonWhitespaceLen(t *testing.T) {
	assert.Equal(t, 10, NonWhitespaceLen("ab cd\tef\ngh ij"))
	assert.Equal(t, 0, NonWhitespaceLen("  \t\n"))
}

func TestMatchProduct(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{"canonical name", "what is the tablet warranty", "tablet", true},
		{"alias", "my fridge stopped cooling", "refrigerator", true},
		{"tv alias", "tv screen is cracked", "television", true},
		{"priority order", "is the tv better than the phone", "television", true},
		{"no product", "where is my order", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := MatchProduct(tc.text)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.expected, p.Key)
			}
		})
	}
}

func TestRepairServices(t *testing.T) {
	assert.Contains(t, RepairServices(FamilyElectronics), "Screen replacement")
	assert.Contains(t, RepairServices(FamilyAppliance), "Compressor repair")
}
