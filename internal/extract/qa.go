package extract

import (
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
)

const (
	// qaAcceptThreshold is the minimum score a pair must exceed.
	qaAcceptThreshold = 15

	containmentScore   = 100
	importantWordScore = 50
)

// qaStopwords are excluded from the important-word fraction.
var qaStopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true,
	"does": true, "will": true, "your": true, "with": true,
	"this": true, "that": true, "have": true, "about": true,
	"from": true, "they": true, "their": true, "would": true,
	"could": true, "should": true,
}

// pairBonus awards a fixed bonus when both the query and the stored question
// satisfy the same keyword predicate.
type pairBonus struct {
	name  string
	score int
	match func(text string) bool
}

func anyOf(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

var pairBonuses = []pairBonus{
	{"track", 30, anyOf("track")},
	{"cancel", 30, anyOf("cancel")},
	{"latest", 20, anyOf("latest")},
	{"order_id", 30, anyOf("order id", "order number")},
	{"all_orders", 20, anyOf("all orders", "all my orders")},
	{"reorder", 30, anyOf("reorder", "order again")},
	{"change", 20, anyOf("change")},
	{"wrong_item", 30, anyOf("wrong item", "wrong product")},
}

// QAScorer matches the query against the document's parsed Q&A pairs and
// returns the best-scoring answer verbatim.
type QAScorer struct{}

// NewQAScorer creates a QAScorer strategy.
func NewQAScorer() *QAScorer { return &QAScorer{} }

func (s *QAScorer) Name() string { return "qa_scorer" }

func (s *QAScorer) Extract(q Query, doc *knowledge.Document) (string, bool) {
	entries := doc.QAEntries()
	if len(entries) == 0 {
		return "", false
	}

	best := 0.0
	bestAnswer := ""
	for _, entry := range entries {
		if score := scorePair(q, entry.Question); score > best {
			best = score
			bestAnswer = entry.Answer
		}
	}

	if best <= qaAcceptThreshold {
		return "", false
	}
	return bestAnswer, true
}

// scorePair computes the heuristic match score between the query and one
// stored question.
func scorePair(q Query, question string) float64 {
	core := corePhrase(question)
	if core == "" {
		return 0
	}

	score := 0.0

	if strings.Contains(q.Lower, core) || strings.Contains(core, q.Lower) {
		score += containmentScore
	}

	if important := importantWords(core); len(important) > 0 {
		found := 0
		for _, w := range important {
			if queryHasWord(q, w) {
				found++
			}
		}
		score += importantWordScore * float64(found) / float64(len(important))
	}

	for _, bonus := range pairBonuses {
		if bonus.match(q.Lower) && bonus.match(core) {
			score += float64(bonus.score)
		}
	}

	if strings.Contains(core, "track") && !q.Contains("track") && !q.Contains("order") {
		score -= 10
	}

	return score
}

// corePhrase is the stored question lowercased with the trailing question
// mark and surrounding whitespace removed.
func corePhrase(question string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(question)), "?"))
}

func importantWords(core string) []string {
	var out []string
	for _, w := range strings.Fields(core) {
		w = strings.Trim(w, ".,!?;:'\"")
		if len(w) > 3 && !qaStopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// queryHasWord reports whether the query carries the word: exact token
// equality, or mutual substring containment for words over 4 characters.
func queryHasWord(q Query, word string) bool {
	for _, t := range q.Tokens {
		if t == word {
			return true
		}
		if len(word) > 4 && len(t) > 4 && (strings.Contains(t, word) || strings.Contains(word, t)) {
			return true
		}
	}
	return false
}
