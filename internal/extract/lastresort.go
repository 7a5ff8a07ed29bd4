package extract

import (
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
)

const orderHistoryMarker = "ORDER HISTORY"

// LastResort returns the lines following a literal "ORDER HISTORY" marker
// when every other strategy has failed.
type LastResort struct{}

// NewLastResort creates a LastResort strategy.
func NewLastResort() *LastResort { return &LastResort{} }

func (l *LastResort) Name() string { return "last_resort" }

func (l *LastResort) Extract(q Query, doc *knowledge.Document) (string, bool) {
	lines := strings.Split(doc.Text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, orderHistoryMarker) {
			continue
		}
		// The first 3 lines after the marker, blanks included.
		end := i + 4
		if end > len(lines) {
			end = len(lines)
		}
		answer := strings.TrimSpace(strings.Join(lines[i+1:end], "\n"))
		if answer == "" {
			return "", false
		}
		return answer, true
	}
	return "", false
}
