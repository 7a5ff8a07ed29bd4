package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-ai/support-engine/internal/cache"
	"github.com/helpdesk-ai/support-engine/internal/classify"
	"github.com/helpdesk-ai/support-engine/internal/extract"
	"github.com/helpdesk-ai/support-engine/internal/observability"
	"github.com/helpdesk-ai/support-engine/internal/source"
)

type fakeFetcher struct {
	texts map[string]string
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, domain string) (string, error) {
	f.calls++
	if text, ok := f.texts[domain]; ok {
		return text, nil
	}
	return "", errors.New("connection refused")
}

type emptyStore struct{}

func (emptyStore) Read(domain string) (string, bool, error) { return "", false, nil }

type failingGenerative struct{ calls int }

func (g *failingGenerative) Generate(ctx context.Context, query, corpus string) (string, error) {
	g.calls++
	return "", errors.New("quota exceeded")
}

type fixedGenerative struct{ text string }

func (g *fixedGenerative) Generate(ctx context.Context, query, corpus string) (string, error) {
	return g.text, nil
}

const warrantyText = "TABLET:\n" +
	"- Warranty period: 24 Months\n" +
	"- Covers manufacturing defects with free repair at authorized service centers\n" +
	"Repair services available:\n" +
	"  Screen replacement\n" +
	"\n"

func newTestComposer(t *testing.T, fetcher *fakeFetcher, generative Generative) *Composer {
	t.Helper()
	logger := observability.Nop()
	sources := source.NewCache(logger, fetcher, emptyStore{}, source.CacheConfig{})
	return NewComposer(
		logger,
		classify.New(),
		sources,
		extract.DefaultChain(logger),
		cache.NewMemoryClient(100),
		generative,
		nil,
	)
}

func TestComposer_CannedIntentSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "bye")
	require.NoError(t, err)
	assert.Equal(t, intentReplies[classify.IntentGoodbye], reply.Text)
	assert.Equal(t, "canned_intent", reply.Strategy)
	assert.Equal(t, 0, fetcher.calls)
}

func TestComposer_NoTopicSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, genericReply, reply.Text)
	assert.Equal(t, 0, fetcher.calls)
}

func TestComposer_WarrantyExtraction(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]string{"warranty": warrantyText}}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "What is tablet warranty period?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Warranty period: 24 Months")
	assert.Equal(t, "warranty", reply.Topic)
	assert.Equal(t, "product_matcher", reply.Strategy)
	assert.Equal(t, "live", reply.Provenance)
}

func TestComposer_Idempotent(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]string{"warranty": warrantyText}}
	c := newTestComposer(t, fetcher, nil)

	first, err := c.Answer(context.Background(), "tablet warranty?")
	require.NoError(t, err)

	second, err := c.Answer(context.Background(), "tablet warranty?")
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, fetcher.calls)
}

func TestComposer_SourceUnavailableApology(t *testing.T) {
	fetcher := &fakeFetcher{}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "what is the warranty on my tv")
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
	assert.Equal(t, apologyReply, reply.Text)
}

func TestComposer_OrdersShortResultDiscarded(t *testing.T) {
	// The only extraction path yields a result under 31 characters, which
	// the orders acceptance rule discards for a sub-intent reply.
	ordersText := "ORDER HISTORY\nok\n"
	fetcher := &fakeFetcher{texts: map[string]string{"orders": ordersText}}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "I need to cancel my order")
	require.NoError(t, err)
	assert.Equal(t, "canned_order", reply.Strategy)
	assert.Contains(t, reply.Text, "cancelled from the My Orders page")
}

func TestComposer_OrdersLongResultAccepted(t *testing.T) {
	ordersText := "ORDER HISTORY\n" +
		"#1001 Wireless Mouse - delivered on Monday\n" +
		"#1002 USB Cable - shipped yesterday\n"
	fetcher := &fakeFetcher{texts: map[string]string{"orders": ordersText}}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "show me all my orders please")
	require.NoError(t, err)
	assert.Equal(t, "last_resort", reply.Strategy)
	assert.Contains(t, reply.Text, "#1001")
}

func TestComposer_GenerativeSuccess(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]string{"warranty": warrantyText}}
	c := newTestComposer(t, fetcher, &fixedGenerative{text: "Tablets are covered for 24 months."})

	reply, err := c.Answer(context.Background(), "tablet warranty?")
	require.NoError(t, err)
	assert.Equal(t, "Tablets are covered for 24 months.", reply.Text)
	assert.Equal(t, "generative", reply.Strategy)
}

func TestComposer_GenerativeFailureFallsBackToExtraction(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]string{"warranty": warrantyText}}
	gen := &failingGenerative{}
	c := newTestComposer(t, fetcher, gen)

	reply, err := c.Answer(context.Background(), "tablet warranty?")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "product_matcher", reply.Strategy)
	assert.Contains(t, reply.Text, "Warranty period: 24 Months")
}

func TestComposer_GenerativeFailureNonWarrantyUsesCanned(t *testing.T) {
	returnsText := "RETURNS POLICY:\nItems can be returned within thirty days of delivery.\n"
	fetcher := &fakeFetcher{texts: map[string]string{"returns": returnsText}}
	c := newTestComposer(t, fetcher, &failingGenerative{})

	reply, err := c.Answer(context.Background(), "when will I get my refund")
	require.NoError(t, err)
	assert.Equal(t, "canned_topic", reply.Strategy)
	assert.Equal(t, topicFallbacks[classify.TopicReturns], reply.Text)
}

func TestComposer_NoMatchUsesTopicFallback(t *testing.T) {
	paymentsText := "PAYMENTS:\nshort\n"
	fetcher := &fakeFetcher{texts: map[string]string{"payments": paymentsText}}
	c := newTestComposer(t, fetcher, nil)

	reply, err := c.Answer(context.Background(), "xyzzy payment")
	require.NoError(t, err)
	assert.Equal(t, "canned_topic", reply.Strategy)
	assert.Equal(t, topicFallbacks[classify.TopicPayments], reply.Text)
}

func TestOrderReply_SubIntents(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"order id", "what is my order number", "order ID"},
		{"latest", "show my latest order", "latest order"},
		{"tracking", "track my order", "track your order"},
		{"cancellation", "cancel the order", "cancelled"},
		{"generic", "orders", "My Orders page"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, orderReply(tc.query), tc.expected)
		})
	}
}
