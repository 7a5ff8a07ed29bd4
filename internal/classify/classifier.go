// Package classify routes a normalized query to a support topic or to a
// canned-intent shortcut.
package classify

import (
	"regexp"
	"strings"
)

// Topic is one of the fixed support categories.
type Topic string

const (
	TopicReturns  Topic = "returns"
	TopicShipping Topic = "shipping"
	TopicPayments Topic = "payments"
	TopicOrders   Topic = "orders"
	TopicWarranty Topic = "warranty"
	TopicNone     Topic = "none"
)

// Intent is a canned conversational intent that bypasses all corpus lookup.
type Intent string

const (
	IntentGreeting  Intent = "greeting"
	IntentHowAreYou Intent = "how_are_you"
	IntentHelp      Intent = "help"
	IntentThanks    Intent = "thanks"
	IntentGoodbye   Intent = "goodbye"
)

// topicFamily is one synonym/regex family. Families are checked in fixed
// priority order; the first match wins.
type topicFamily struct {
	topic   Topic
	pattern *regexp.Regexp
}

// Classifier detects canned intents and routes queries to topics.
type Classifier struct {
	families []topicFamily

	greeting  *regexp.Regexp
	howAreYou *regexp.Regexp
	help      *regexp.Regexp
	thanks    *regexp.Regexp
	goodbye   *regexp.Regexp
}

// New creates a classifier with the fixed topic families.
func New() *Classifier {
	return &Classifier{
		families: []topicFamily{
			{TopicReturns, regexp.MustCompile(`\breturn(s|ed|ing)?\b|\brefund(s|ed)?\b|\bexchange\b|money back`)},
			{TopicShipping, regexp.MustCompile(`\bship(ping|ment|ped)?\b|\bdeliver(y|ed|ies)?\b|\barriv(e|al|ing)\b|\bdispatch(ed)?\b|\bcourier\b`)},
			{TopicPayments, regexp.MustCompile(`\bpay(ment|ments)?\b|\bcard\b|\bbilling\b|\bcharge(d|s)?\b|\binvoice\b|\bupi\b|\bemi\b|\bwallet\b`)},
			{TopicOrders, regexp.MustCompile(`\border(s|ed)?\b|\bpurchase(d)?\b|\bbought\b|\btrack(ing)?\b|\bcancel\b`)},
			{TopicWarranty, regexp.MustCompile(`\bwarrant(y|ies)\b|\bguarantee(d)?\b|\brepair(s|ed)?\b|service cent(er|re)`)},
		},
		greeting:  regexp.MustCompile(`^(hi|hii+|hello|hey|good (morning|afternoon|evening))\b`),
		howAreYou: regexp.MustCompile(`how are you`),
		help:      regexp.MustCompile(`^help\b|can you help|need help`),
		thanks:    regexp.MustCompile(`\bthank(s| you)?\b|\bthx\b`),
		goodbye:   regexp.MustCompile(`^(bye|goodbye|see you|good night)\b|\bbye\b`),
	}
}

// CannedIntent detects fixed conversational intents with top priority.
// Greeting and help only short-circuit short messages so that queries like
// "hi, where is my order" still reach topic routing.
func (c *Classifier) CannedIntent(query string) (Intent, bool) {
	q := normalize(query)
	words := len(strings.Fields(q))

	switch {
	case c.howAreYou.MatchString(q):
		return IntentHowAreYou, true
	case c.goodbye.MatchString(q) && words <= 4:
		return IntentGoodbye, true
	case c.thanks.MatchString(q) && words <= 4:
		return IntentThanks, true
	case c.greeting.MatchString(q) && words <= 3:
		return IntentGreeting, true
	case c.help.MatchString(q) && words <= 4:
		return IntentHelp, true
	}
	return "", false
}

// Classify routes a query to a topic. Families are checked in priority
// order returns > shipping > payments > orders > warranty.
func (c *Classifier) Classify(query string) Topic {
	q := normalize(query)
	for _, f := range c.families {
		if f.pattern.MatchString(q) {
			return f.topic
		}
	}
	return TopicNone
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
