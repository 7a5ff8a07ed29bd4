// Package knowledge models the plain-text knowledge corpus a topic is
// answered from: header-delimited sections, Q&A pairs, and the product
// alias table shared by the fetcher and the extraction engine.
package knowledge

import (
	"regexp"
	"strings"
)

// Document is the knowledge corpus associated with one topic.
type Document struct {
	Topic    string
	Text     string
	Sections []Section
}

// Section is a header-delimited region of a document. A header is a line of
// ALL-CAPS tokens ending with a colon; the body runs until the next header.
type Section struct {
	Header string
	Lines  []string
}

// QAEntry is a question/answer pair parsed from the document.
type QAEntry struct {
	Question string
	Answer   string
}

var (
	headerPattern    = regexp.MustCompile(`^[A-Z][A-Z0-9 &/'\-]*:\s*$`)
	separatorPattern = regexp.MustCompile(`[=*_\-]{3,}`)
)

// NewDocument parses text into a Document with derived sections.
func NewDocument(topic, text string) *Document {
	return &Document{
		Topic:    topic,
		Text:     text,
		Sections: ParseSections(text),
	}
}

// IsHeader reports whether a line is a section header: ALL-CAPS tokens plus
// a colon, and not a separator marker.
func IsHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if separatorPattern.MatchString(trimmed) {
		return false
	}
	return headerPattern.MatchString(trimmed)
}

// ParseSections segments text by header lines. Text before the first header
// belongs to no section.
func ParseSections(text string) []Section {
	var sections []Section
	var current *Section

	lines := strings.Split(text, "\n")
	// Text ending with a newline splits into a trailing empty element;
	// dropping it keeps a phantom blank line out of the last section.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for _, line := range lines {
		if IsHeader(line) {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Header: strings.TrimSpace(line)}
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}

	return sections
}

// Body returns the section body as a single string.
func (s Section) Body() string {
	return strings.Join(s.Lines, "\n")
}

// QAEntries parses all question/answer pairs from the document. Pairs come
// from "Q:"/"A:" line pairs or from "QUESTIONS ABOUT" marker lines; an
// answer accumulates following non-blank lines until a blank line.
func (d *Document) QAEntries() []QAEntry {
	var entries []QAEntry

	lines := strings.Split(d.Text, "\n")
	var question string
	var answer []string
	inAnswer := false

	flush := func() {
		if question != "" && len(answer) > 0 {
			entries = append(entries, QAEntry{
				Question: question,
				Answer:   strings.TrimSpace(strings.Join(answer, " ")),
			})
		}
		question = ""
		answer = nil
		inAnswer = false
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "Q:"):
			flush()
			question = strings.TrimSpace(strings.TrimPrefix(line, "Q:"))

		case strings.HasPrefix(line, "A:"):
			if question != "" {
				inAnswer = true
				if body := strings.TrimSpace(strings.TrimPrefix(line, "A:")); body != "" {
					answer = append(answer, body)
				}
			}

		case strings.HasPrefix(strings.ToUpper(line), "QUESTIONS ABOUT"):
			flush()
			question = strings.ToLower(strings.TrimSuffix(line, ":"))
			inAnswer = true

		case line == "":
			flush()

		case inAnswer:
			answer = append(answer, line)
		}
	}
	flush()

	return entries
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits text on sentence terminators. Terminators are not
// retained; callers re-join with ". ".
func SplitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// NonWhitespaceLen counts the non-whitespace characters in s.
func NonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t\n\r", r) {
			n++
		}
	}
	return n
}
