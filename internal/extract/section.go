package extract

import (
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
)

const (
	// sectionBestCap freezes the best-count tracker once it reaches 3.
	// Inherited behavior: later sections with equal or higher counts are
	// never considered past that point. Known latent correctness gap,
	// preserved deliberately.
	sectionBestCap = 3

	sectionMaxSentences    = 3
	sectionMinSentenceLen  = 20
	sectionQueryWordMinLen = 3
)

// SectionFallback picks the section sharing the most query words with the
// query and summarizes its first sentences.
type SectionFallback struct{}

// NewSectionFallback creates a SectionFallback strategy.
func NewSectionFallback() *SectionFallback { return &SectionFallback{} }

func (s *SectionFallback) Name() string { return "section_fallback" }

func (s *SectionFallback) Extract(q Query, doc *knowledge.Document) (string, bool) {
	words := q.Words(sectionQueryWordMinLen)
	if len(words) == 0 {
		return "", false
	}

	best := 0
	var winner knowledge.Section
	for _, section := range doc.Sections {
		count := containedWordCount(words, section.Header+"\n"+section.Body())
		if best >= sectionBestCap {
			continue
		}
		if count > best {
			best = count
			winner = section
		}
	}

	if best < 1 {
		return "", false
	}

	var sentences []string
	for _, sentence := range knowledge.SplitSentences(winner.Body()) {
		if knowledge.NonWhitespaceLen(sentence) > sectionMinSentenceLen {
			sentences = append(sentences, sentence)
		}
		if len(sentences) == sectionMaxSentences {
			break
		}
	}
	if len(sentences) == 0 {
		return "", false
	}

	return strings.Join(sentences, ". ") + ".", true
}

// containedWordCount counts how many of the words appear in the lowercased
// text by substring containment.
func containedWordCount(words []string, text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}
