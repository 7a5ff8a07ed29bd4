package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-ai/support-engine/internal/observability"
)

func newTestFetcher(url string) *Fetcher {
	return NewFetcher(observability.Nop(), FetcherConfig{
		URLs: map[string]string{"warranty": url},
	})
}

func TestFetcher_ScansWarrantyRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h2>Television</h2>
			<p>Warranty period: 12 months from the date of purchase</p>
			<h2>Refrigerator</h2>
			<p>Warranty period: 36 months covering the compressor</p>
		</body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.NoError(t, err)

	assert.Contains(t, text, "TELEVISION:\n- Warranty period: 12 Months")
	assert.Contains(t, text, "REFRIGERATOR:\n- Warranty period: 36 Months")
	assert.Contains(t, text, "Screen replacement")
	assert.Contains(t, text, "Compressor repair")
}

func TestFetcher_HarvestsFAQPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h2>Laptop</h2>
			<p>Warranty period: 24 months on all laptop models</p>
			<h3>How do returns work?</h3>
			<p>Items can be returned within 30 days of delivery with original packaging.</p>
		</body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.NoError(t, err)

	assert.Contains(t, text, "CUSTOMER QUESTIONS:")
	assert.Contains(t, text, "Q: How do returns work?")
	assert.Contains(t, text, "A: Items can be returned within 30 days")
}

func TestFetcher_CatalogSubstitution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Nothing recognizable on this page at all.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.NoError(t, err)

	// Parsing empty is not an error: the canonical catalog fills in.
	assert.Contains(t, text, "TELEVISION:\n- Warranty period: 12 Months")
	assert.Contains(t, text, "WASHING MACHINE:\n- Warranty period: 24 Months")
	assert.Contains(t, text, "MICROWAVE:\n- Warranty period: 12 Months")
}

func TestFetcher_RetryAfterRetriesOnce(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<html><body><h2>Tablet</h2><p>Warranty period: 24 months</p></body></html>`))
	}))
	defer srv.Close()

	text, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, text, "TABLET:\n- Warranty period: 24 Months")
}

func TestFetcher_RetryAfterGivesUpAfterSecondFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestFetcher_NoRetryWithoutHeader(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Fetch(context.Background(), "warranty")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestFetcher_UnconfiguredDomain(t *testing.T) {
	_, err := newTestFetcher("http://unused").Fetch(context.Background(), "payments")
	assert.ErrorIs(t, err, ErrNoLiveSource)
}

func TestRenderKnowledgeText_Empty(t *testing.T) {
	assert.Equal(t, "", RenderKnowledgeText(nil, nil))
}

func TestCatalogRecords_CoversAllProducts(t *testing.T) {
	records := CatalogRecords()
	require.Len(t, records, 7)
	for _, r := range records {
		assert.NotEmpty(t, r.Period)
		assert.NotEmpty(t, r.Services)
	}
}
