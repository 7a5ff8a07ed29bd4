package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_CannedIntent(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		query    string
		expected Intent
		found    bool
	}{
		{"greeting", "hello", IntentGreeting, true},
		{"greeting with punctuation", "Hi!", IntentGreeting, true},
		{"how are you", "how are you doing today my friend", IntentHowAreYou, true},
		{"goodbye", "bye", IntentGoodbye, true},
		{"thanks", "thanks a lot", IntentThanks, true},
		{"help", "can you help", IntentHelp, true},
		// Long messages bypass the short-circuit and reach topic routing.
		{"greeting with question", "hi, where is my order right now", "", false},
		{"thanks in long sentence", "thanks but I still need my refund processed please", "", false},
		{"long thanks falls through", "thank you so much for all your help", "", false},
		{"plain question", "what is the warranty on my laptop", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			intent, ok := c.CannedIntent(tc.query)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.expected, intent)
			}
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		query    string
		expected Topic
	}{
		{"returns", "I want to return my shoes", TopicReturns},
		{"refund", "when will I get my refund", TopicReturns},
		{"shipping", "when will my package be delivered", TopicShipping},
		{"payments", "my card was charged twice", TopicPayments},
		{"orders", "where is my order", TopicOrders},
		{"tracking", "how do I track my package", TopicOrders},
		{"warranty", "what is the tv warranty", TopicWarranty},
		{"repair", "my phone needs repair", TopicWarranty},
		{"no topic", "tell me a joke", TopicNone},
		// Priority order: returns wins over orders when both match.
		{"return an order", "return my order please", TopicReturns},
		// Payments beats orders for cancellation of a payment.
		{"cancel payment", "cancel my payment", TopicPayments},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.query))
		})
	}
}
