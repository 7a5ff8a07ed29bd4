package monitoring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-ai/support-engine/internal/compose"
	"github.com/helpdesk-ai/support-engine/internal/observability"
)

func TestAuditLogger_RecordAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	audit, err := NewAuditLogger(observability.Nop(), path)
	require.NoError(t, err)
	defer audit.Close()

	ctx := context.Background()
	audit.Record(ctx, compose.AuditEvent{
		Question:   "tablet warranty?",
		Topic:      "warranty",
		Strategy:   "product_matcher",
		Provenance: "live",
		Latency:    12 * time.Millisecond,
	})
	audit.Record(ctx, compose.AuditEvent{
		Question: "where is my order",
		Topic:    "orders",
		Strategy: "canned_order",
		Latency:  3 * time.Millisecond,
	})

	events, err := audit.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "where is my order", events[0].Question)
	assert.Equal(t, "tablet warranty?", events[1].Question)
	assert.Equal(t, int64(12), events[1].LatencyMs)
	assert.Equal(t, "live", events[1].Provenance)
}

func TestAuditLogger_RecentEventsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	audit, err := NewAuditLogger(observability.Nop(), path)
	require.NoError(t, err)
	defer audit.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		audit.Record(ctx, compose.AuditEvent{Question: "q", Topic: "orders", Strategy: "canned_order"})
	}

	events, err := audit.RecentEvents(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
