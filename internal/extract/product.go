package extract

import (
	"regexp"
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
)

var (
	periodPattern      = regexp.MustCompile(`(?i)Warranty period:\s*(\d+)\s*Months`)
	repairLabelPattern = regexp.MustCompile(`(?i)repair services available:`)
)

// repairLookaheadMax bounds the scan below the repair-services label.
const repairLookaheadMax = 10

// ProductMatcher answers warranty queries by locating the product's section
// in the corpus and extracting its period, service sentence, and repair list.
type ProductMatcher struct{}

// NewProductMatcher creates a ProductMatcher strategy.
func NewProductMatcher() *ProductMatcher { return &ProductMatcher{} }

func (m *ProductMatcher) Name() string { return "product_matcher" }

// Extract returns an answer only when the query names a known product and
// the product's section carries a warranty period.
func (m *ProductMatcher) Extract(q Query, doc *knowledge.Document) (string, bool) {
	product, ok := knowledge.MatchProduct(q.Lower)
	if !ok {
		return "", false
	}

	section, ok := productSection(doc, product)
	if !ok {
		return "", false
	}

	period := ""
	if match := periodPattern.FindStringSubmatch(section.Body()); match != nil {
		period = match[1]
	}
	if period == "" {
		return "", false
	}

	service := serviceSentence(section)
	services := repairList(section)

	parts := []string{"Warranty period: " + period + " Months", service}
	if len(services) > 0 {
		parts = append(parts, "Repair services available: "+strings.Join(services, ", "))
	}
	return strings.Join(parts, ". ") + ".", true
}

// productSection finds the section whose header names the product, using the
// same alias set as the query match.
func productSection(doc *knowledge.Document, product knowledge.Product) (knowledge.Section, bool) {
	for _, section := range doc.Sections {
		header := strings.ToLower(section.Header)
		for _, alias := range product.Aliases {
			if strings.Contains(header, alias) {
				return section, true
			}
		}
	}
	return knowledge.Section{}, false
}

// serviceSentence picks the warranty-service sentence: the first line
// mentioning coverage, else the first bullet that is not the period line.
func serviceSentence(section knowledge.Section) string {
	for _, line := range section.Lines {
		if strings.Contains(strings.ToLower(line), "covers") {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		}
	}
	for _, line := range section.Lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		if periodPattern.MatchString(body) || repairLabelPattern.MatchString(body) {
			continue
		}
		if body != "" {
			return body
		}
	}
	return knowledge.ServiceSentence
}

// repairList collects indented lines following the "Repair services
// available:" label, stopping at the next blank or unindented line. The
// look-ahead is capped at 10 lines.
func repairList(section knowledge.Section) []string {
	var services []string

	for i, line := range section.Lines {
		if !repairLabelPattern.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(section.Lines) && j <= i+repairLookaheadMax; j++ {
			next := section.Lines[j]
			if strings.TrimSpace(next) == "" {
				break
			}
			if !strings.HasPrefix(next, " ") && !strings.HasPrefix(next, "\t") {
				break
			}
			services = append(services, strings.TrimSpace(next))
		}
		break
	}

	return services
}
