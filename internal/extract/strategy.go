// Package extract implements the answer extraction engine: an ordered chain
// of heuristic strategies applied to a query and a knowledge document.
package extract

import (
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
	"github.com/helpdesk-ai/support-engine/internal/observability"
)

// Query is the normalized form of a user message used throughout scoring.
type Query struct {
	Raw    string
	Lower  string
	Tokens []string
}

// NewQuery normalizes a raw message: lowercased, whitespace-tokenized, with
// punctuation trimmed from tokens.
func NewQuery(raw string) Query {
	lower := strings.ToLower(strings.TrimSpace(raw))
	fields := strings.Fields(lower)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,!?;:()[]{}'\""); t != "" {
			tokens = append(tokens, t)
		}
	}
	return Query{Raw: raw, Lower: lower, Tokens: tokens}
}

// Words returns the query tokens longer than minLen characters.
func (q Query) Words(minLen int) []string {
	var out []string
	for _, t := range q.Tokens {
		if len(t) > minLen {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether the query mentions the given word.
func (q Query) Contains(word string) bool {
	return strings.Contains(q.Lower, word)
}

// Strategy is one extraction heuristic. Extract returns ok=false when the
// strategy has nothing to offer for this query.
type Strategy interface {
	Name() string
	Extract(q Query, doc *knowledge.Document) (string, bool)
}

// Chain tries strategies in order and short-circuits on the first result.
type Chain struct {
	logger     *observability.Logger
	strategies []Strategy
}

// NewChain creates an extraction chain.
func NewChain(logger *observability.Logger, strategies ...Strategy) *Chain {
	return &Chain{
		logger:     logger.WithComponent("extract"),
		strategies: strategies,
	}
}

// DefaultChain returns the standard strategy order.
func DefaultChain(logger *observability.Logger) *Chain {
	return NewChain(logger,
		NewProductMatcher(),
		NewQAScorer(),
		NewSectionFallback(),
		NewParagraphFallback(),
		NewLastResort(),
	)
}

// Run applies the chain. It returns the answer, the name of the strategy
// that produced it, and ok=false when every strategy came up empty.
func (c *Chain) Run(q Query, doc *knowledge.Document) (string, string, bool) {
	for _, s := range c.strategies {
		if answer, ok := s.Extract(q, doc); ok && answer != "" {
			c.logger.Debug().
				Str("strategy", s.Name()).
				Str("topic", doc.Topic).
				Msg("Strategy produced answer")
			return answer, s.Name(), true
		}
	}

	c.logger.Debug().Str("topic", doc.Topic).Msg("Extraction chain exhausted")
	return "", "", false
}
