package extract

import (
	"regexp"
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
)

const (
	paragraphMinLen         = 50
	paragraphMaxSentences   = 2
	paragraphMinSentenceLen = 15
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// ParagraphFallback scores blank-line-delimited paragraphs by shared query
// words and summarizes the best one.
type ParagraphFallback struct{}

// NewParagraphFallback creates a ParagraphFallback strategy.
func NewParagraphFallback() *ParagraphFallback { return &ParagraphFallback{} }

func (p *ParagraphFallback) Name() string { return "paragraph_fallback" }

func (p *ParagraphFallback) Extract(q Query, doc *knowledge.Document) (string, bool) {
	words := q.Words(sectionQueryWordMinLen)
	if len(words) == 0 {
		return "", false
	}

	best := 0
	winner := ""
	for _, para := range paragraphSplit.Split(doc.Text, -1) {
		para = strings.TrimSpace(para)
		if len(para) <= paragraphMinLen {
			continue
		}
		if count := containedWordCount(words, para); count > best {
			best = count
			winner = para
		}
	}

	if best == 0 {
		return "", false
	}

	var sentences []string
	for _, sentence := range knowledge.SplitSentences(winner) {
		if len(sentence) > paragraphMinSentenceLen {
			sentences = append(sentences, sentence)
		}
		if len(sentences) == paragraphMaxSentences {
			break
		}
	}
	if len(sentences) == 0 {
		return "", false
	}

	return strings.Join(sentences, ". ") + ".", true
}
