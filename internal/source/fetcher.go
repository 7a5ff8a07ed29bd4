// Package source provides the live knowledge source fetcher and the
// three-tier source cache (live fetch, memory cache, static file fallback).
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/helpdesk-ai/support-engine/internal/knowledge"
	"github.com/helpdesk-ai/support-engine/internal/observability"
)

// ErrNoLiveSource indicates the domain has no live source URL configured.
var ErrNoLiveSource = errors.New("no live source configured")

// ProductWarrantyRecord is a structured warranty record recognized in a
// live source document.
type ProductWarrantyRecord struct {
	Product  knowledge.Product
	Period   string // months, digits only
	Service  string
	Services []string
}

// FAQPair is a question/answer pair harvested from a live source document.
type FAQPair struct {
	Question string
	Answer   string
}

// FetcherConfig holds live fetcher configuration.
type FetcherConfig struct {
	// Timeout bounds a single fetch attempt.
	Timeout time.Duration
	// URLs maps a knowledge domain to its live source URL.
	URLs map[string]string
}

// Fetcher retrieves a remote semi-structured document and normalizes it
// into knowledge text.
type Fetcher struct {
	logger *observability.Logger
	client *http.Client
	urls   map[string]string
}

// NewFetcher creates a live source fetcher.
func NewFetcher(logger *observability.Logger, cfg FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		logger: logger.WithComponent("fetcher"),
		client: &http.Client{Timeout: timeout},
		urls:   cfg.URLs,
	}
}

// Fetch retrieves and normalizes the live document for a domain. A document
// with no recognizable structured records is not an error: the hard-coded
// catalog is substituted so the corpus is never empty.
func (f *Fetcher) Fetch(ctx context.Context, domain string) (string, error) {
	url, ok := f.urls[domain]
	if !ok || url == "" {
		return "", fmt.Errorf("%s: %w", domain, ErrNoLiveSource)
	}

	body, err := f.get(ctx, url, true)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", domain, err)
	}

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", domain, err)
	}

	nodes := candidateNodes(root)
	records := scanWarrantyRecords(nodes)
	pairs := harvestFAQPairs(nodes)

	if len(records) == 0 {
		f.logger.Warn().
			Str("domain", domain).
			Int("faq_pairs", len(pairs)).
			Msg("No structured records recognized, substituting canonical catalog")
		records = CatalogRecords()
	}

	f.logger.Info().
		Str("domain", domain).
		Int("records", len(records)).
		Int("faq_pairs", len(pairs)).
		Msg("Live source normalized")

	return RenderKnowledgeText(records, pairs), nil
}

// get performs the HTTP request. When the source signals it is warming up
// (503/429 with Retry-After seconds), it waits once and retries once; there
// is no further backoff.
func (f *Fetcher) get(ctx context.Context, url string, allowRetry bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "support-engine/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		if allowRetry && retryAfter != "" {
			secs, convErr := strconv.Atoi(retryAfter)
			if convErr == nil && secs >= 0 {
				f.logger.Info().Int("retry_after_s", secs).Msg("Source warming up, retrying once")
				timer := time.NewTimer(time.Duration(secs) * time.Second)
				defer timer.Stop()
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-timer.C:
				}
				return f.get(ctx, url, false)
			}
		}
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// candidate is one scannable text node from the document.
type candidate struct {
	tag  string
	text string
}

var candidateTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true,
	"strong": true, "b": true, "em": true,
	"li": true, "p": true, "a": true,
}

// textBlockTags are candidates that can serve as FAQ answer blocks.
var textBlockTags = map[string]bool{"p": true, "li": true}

// candidateNodes collects headings, emphasized text, list items, paragraphs
// and anchors in document order.
func candidateNodes(root *html.Node) []candidate {
	var out []candidate

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && candidateTags[n.Data] {
			if text := collapseWhitespace(textContent(n)); text != "" {
				out = append(out, candidate{tag: n.Data, text: text})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var monthsPattern = regexp.MustCompile(`(?i)(\d+)\s*month`)

// scanWarrantyRecords emits a record when a product alias co-occurs with a
// warranty-period signal in the same node or an adjacent one. The first
// record per product wins.
func scanWarrantyRecords(nodes []candidate) []ProductWarrantyRecord {
	var records []ProductWarrantyRecord
	seen := make(map[string]bool)

	for i, node := range nodes {
		product, ok := knowledge.MatchProduct(node.text)
		if !ok || seen[product.Key] {
			continue
		}

		// The following node is preferred over the preceding one so a
		// heading's own period paragraph wins over the previous product's.
		period := ""
		for _, j := range []int{i, i + 1, i - 1} {
			if j < 0 || j >= len(nodes) {
				continue
			}
			if p, ok := periodSignal(nodes[j].text); ok {
				period = p
				break
			}
		}
		if period == "" {
			continue
		}

		seen[product.Key] = true
		records = append(records, ProductWarrantyRecord{
			Product:  product,
			Period:   period,
			Service:  knowledge.ServiceSentence,
			Services: knowledge.RepairServices(product.Family),
		})
	}

	return records
}

// periodSignal reports whether text carries a warranty-period signal and
// extracts the month count if present.
func periodSignal(text string) (string, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "warranty period") && !strings.Contains(lower, "month") {
		return "", false
	}
	m := monthsPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

const (
	maxFAQPairs  = 20
	minAnswerLen = 20
	maxAnswerLen = 1000
)

var questionPrefixes = []string{"what", "how", "can", "which", "does", "will"}

// harvestFAQPairs pairs question-like headings and anchors with the nearest
// following text block of reasonable size. At most 20 pairs are retained.
func harvestFAQPairs(nodes []candidate) []FAQPair {
	var pairs []FAQPair

	for i, node := range nodes {
		if len(pairs) >= maxFAQPairs {
			break
		}
		if node.tag != "a" && !strings.HasPrefix(node.tag, "h") {
			continue
		}
		if !looksLikeQuestion(node.text) {
			continue
		}

		for j := i + 1; j < len(nodes); j++ {
			if !textBlockTags[nodes[j].tag] {
				continue
			}
			n := len(nodes[j].text)
			if n < minAnswerLen || n > maxAnswerLen {
				continue
			}
			pairs = append(pairs, FAQPair{Question: node.text, Answer: nodes[j].text})
			break
		}
	}

	return pairs
}

func looksLikeQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lower := strings.ToLower(text)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			return true
		}
	}
	return false
}

// RenderKnowledgeText renders structured records and FAQ pairs into the
// normalized corpus format consumed by the extraction engine.
func RenderKnowledgeText(records []ProductWarrantyRecord, pairs []FAQPair) string {
	var b strings.Builder

	for _, r := range records {
		b.WriteString(strings.ToUpper(r.Product.Key) + ":\n")
		b.WriteString("- Warranty period: " + r.Period + " Months\n")
		b.WriteString("- " + r.Service + "\n")
		b.WriteString("Repair services available:\n")
		for _, s := range r.Services {
			b.WriteString("  " + s + "\n")
		}
		b.WriteString("\n")
	}

	if len(pairs) > 0 {
		b.WriteString("CUSTOMER QUESTIONS:\n\n")
		for _, p := range pairs {
			b.WriteString("Q: " + p.Question + "\n")
			b.WriteString("A: " + p.Answer + "\n\n")
		}
	}

	return b.String()
}
