// Package compose orchestrates the classifier, the source cache, and the
// extraction chain into the final reply, with canned fallbacks at every
// stage so no query ever fails without a textual answer.
package compose

import (
	"strings"

	"github.com/helpdesk-ai/support-engine/internal/classify"
)

// intentReplies are the fixed conversational replies.
var intentReplies = map[classify.Intent]string{
	classify.IntentGreeting:  "Hello! Welcome to customer support. How can I help you today?",
	classify.IntentHowAreYou: "I'm doing great, thank you for asking! How can I assist you today?",
	classify.IntentHelp:      "I can help you with returns, shipping, payments, orders, and warranty questions. What would you like to know?",
	classify.IntentThanks:    "You're welcome! Is there anything else I can help you with?",
	classify.IntentGoodbye:   "Goodbye! Thank you for contacting customer support. Have a great day!",
}

// topicFallbacks are substituted when the extraction chain produces nothing.
var topicFallbacks = map[classify.Topic]string{
	classify.TopicReturns:  "You can return most items within 30 days of delivery. Please keep the original packaging and your invoice.",
	classify.TopicShipping: "Standard shipping takes 3-5 business days. You will receive a tracking link by email once your order is dispatched.",
	classify.TopicPayments: "We accept credit and debit cards, UPI, net banking, and wallet payments. All transactions are secured.",
	classify.TopicOrders:   "You can view and manage your orders from the My Orders page in your account.",
	classify.TopicWarranty: "Most products carry a manufacturer warranty. Please share the product name so I can look up the exact warranty period.",
}

// genericReply answers queries that match no topic.
const genericReply = "I'm not sure I understood that. I can help with returns, shipping, payments, orders, and warranty questions."

// apologyReply is returned when every knowledge source for a topic failed.
const apologyReply = "Sorry, I'm having trouble accessing that information right now. Please try again in a few minutes."

// orderSubIntent is a narrower canned reply for the orders topic, tried by
// keyword match when extraction output is too short to be useful.
type orderSubIntent struct {
	keywords []string
	reply    string
}

var orderSubIntents = []orderSubIntent{
	{[]string{"order id", "order number"}, "You can find your order ID in the confirmation email or on the My Orders page of your account."},
	{[]string{"latest", "last order", "recent"}, "Your latest order details are shown at the top of the My Orders page in your account."},
	{[]string{"track", "where is"}, "You can track your order from the My Orders page using the tracking link in your dispatch email."},
	{[]string{"cancel"}, "Orders can be cancelled from the My Orders page before they are dispatched. Refunds are processed within 5-7 business days."},
}

// orderReply resolves an orders-topic query to the narrowest matching canned
// reply, falling back to the generic order reply.
func orderReply(query string) string {
	lower := strings.ToLower(query)
	for _, sub := range orderSubIntents {
		for _, kw := range sub.keywords {
			if strings.Contains(lower, kw) {
				return sub.reply
			}
		}
	}
	return topicFallbacks[classify.TopicOrders]
}

// topicFallback returns the canned reply for a topic.
func topicFallback(topic classify.Topic) string {
	if reply, ok := topicFallbacks[topic]; ok {
		return reply
	}
	return genericReply
}
