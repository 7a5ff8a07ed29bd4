package compose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/helpdesk-ai/support-engine/internal/cache"
	"github.com/helpdesk-ai/support-engine/internal/classify"
	"github.com/helpdesk-ai/support-engine/internal/extract"
	"github.com/helpdesk-ai/support-engine/internal/knowledge"
	"github.com/helpdesk-ai/support-engine/internal/observability"
	"github.com/helpdesk-ai/support-engine/internal/source"
)

// ordersMinResultLen is the acceptance bound for orders-topic extraction:
// results at or under this length are discarded for a sub-intent reply.
const ordersMinResultLen = 30

const replyCacheTTL = 10 * time.Minute

// Generative produces a free-form answer from the query and the corpus. It
// is optional; a nil Generative means the extraction chain runs directly.
type Generative interface {
	Generate(ctx context.Context, query, corpus string) (string, error)
}

// Auditor records answered queries. Auditing is optional; a nil Auditor
// disables it.
type Auditor interface {
	Record(ctx context.Context, e AuditEvent)
}

// AuditEvent describes one answered query.
type AuditEvent struct {
	Question   string
	Topic      string
	Strategy   string
	Provenance string
	Latency    time.Duration
}

// Reply is the composed answer for one query.
type Reply struct {
	Text       string `json:"text"`
	Topic      string `json:"topic"`
	Strategy   string `json:"strategy"`
	Provenance string `json:"provenance,omitempty"`
	Cached     bool   `json:"cached"`
}

// Composer sequences intent detection, topic classification, corpus fetch,
// and answer extraction.
type Composer struct {
	logger     *observability.Logger
	classifier *classify.Classifier
	sources    *source.Cache
	chain      *extract.Chain
	replies    cache.Client
	generative Generative
	auditor    Auditor
}

// NewComposer creates a composer. generative and auditor may be nil.
func NewComposer(
	logger *observability.Logger,
	classifier *classify.Classifier,
	sources *source.Cache,
	chain *extract.Chain,
	replies cache.Client,
	generative Generative,
	auditor Auditor,
) *Composer {
	return &Composer{
		logger:     logger.WithComponent("composer"),
		classifier: classifier,
		sources:    sources,
		chain:      chain,
		replies:    replies,
		generative: generative,
		auditor:    auditor,
	}
}

// Answer resolves a query to a reply. The only error it returns is a wrapped
// source.ErrSourceUnavailable; even then the reply carries the canned
// apology so callers can degrade instead of failing.
func (c *Composer) Answer(ctx context.Context, query string) (Reply, error) {
	started := time.Now()

	if intent, ok := c.classifier.CannedIntent(query); ok {
		return Reply{Text: intentReplies[intent], Topic: string(classify.TopicNone), Strategy: "canned_intent"}, nil
	}

	topic := c.classifier.Classify(query)
	if topic == classify.TopicNone {
		return Reply{Text: genericReply, Topic: string(topic), Strategy: "canned_generic"}, nil
	}

	key := replyCacheKey(topic, query)
	if cached, ok := c.cachedReply(ctx, key); ok {
		cached.Cached = true
		return cached, nil
	}

	text, provenance, err := c.sources.Get(ctx, string(topic))
	if err != nil {
		c.logger.Error().Err(err).Str("topic", string(topic)).Msg("All knowledge sources failed")
		return Reply{Text: apologyReply, Topic: string(topic), Strategy: "apology"}, err
	}

	doc := knowledge.NewDocument(string(topic), text)
	reply := c.resolve(ctx, query, topic, doc)
	reply.Provenance = string(provenance)

	c.storeReply(ctx, key, reply)
	c.audit(ctx, query, reply, time.Since(started))

	return reply, nil
}

// resolve runs the generative responder when configured, then the extraction
// chain, then the topic acceptance rules.
func (c *Composer) resolve(ctx context.Context, query string, topic classify.Topic, doc *knowledge.Document) Reply {
	if c.generative != nil {
		text, err := c.generative.Generate(ctx, query, doc.Text)
		if err == nil && strings.TrimSpace(text) != "" {
			return Reply{Text: strings.TrimSpace(text), Topic: string(topic), Strategy: "generative"}
		}
		c.logger.Warn().Err(err).Str("topic", string(topic)).Msg("Generative responder failed, extracting directly")
		if topic != classify.TopicWarranty && !warrantyLike(query) {
			return Reply{Text: topicFallback(topic), Topic: string(topic), Strategy: "canned_topic"}
		}
	}

	q := extract.NewQuery(query)
	answer, strategy, ok := c.chain.Run(q, doc)

	if topic == classify.TopicOrders {
		if ok && len(answer) > ordersMinResultLen {
			return Reply{Text: answer, Topic: string(topic), Strategy: strategy}
		}
		return Reply{Text: orderReply(query), Topic: string(topic), Strategy: "canned_order"}
	}

	if !ok {
		return Reply{Text: topicFallback(topic), Topic: string(topic), Strategy: "canned_topic"}
	}
	return Reply{Text: answer, Topic: string(topic), Strategy: strategy}
}

// warrantyLike reports whether a query names a known product, which makes
// direct corpus extraction worthwhile after a generative failure.
func warrantyLike(query string) bool {
	_, ok := knowledge.MatchProduct(query)
	return ok
}

func replyCacheKey(topic classify.Topic, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cache.CacheKey("reply", string(topic), hex.EncodeToString(sum[:]))
}

func (c *Composer) cachedReply(ctx context.Context, key string) (Reply, bool) {
	if c.replies == nil {
		return Reply{}, false
	}
	data, err := c.replies.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("Reply cache read failed")
		}
		return Reply{}, false
	}
	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return Reply{}, false
	}
	return reply, true
}

func (c *Composer) storeReply(ctx context.Context, key string, reply Reply) {
	if c.replies == nil {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := c.replies.Set(ctx, key, data, replyCacheTTL); err != nil {
		c.logger.Warn().Err(err).Msg("Reply cache write failed")
	}
}

func (c *Composer) audit(ctx context.Context, query string, reply Reply, latency time.Duration) {
	if c.auditor == nil {
		return
	}
	c.auditor.Record(ctx, AuditEvent{
		Question:   query,
		Topic:      reply.Topic,
		Strategy:   reply.Strategy,
		Provenance: reply.Provenance,
		Latency:    latency,
	})
}
