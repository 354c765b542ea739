package intent

import (
	"regexp"
	"strings"
)

// Decision records which commerce payloads the current turn needs and the
// product name surfaced from the message, if any.
type Decision struct {
	WantsProducts bool
	WantsOrders   bool
	ProductMatch  string
}

// productNamePattern captures either the words after "product" or the words
// before "available"/"in stock". Group 1 wins when both could apply.
var productNamePattern = regexp.MustCompile(`(?i)product\s*([A-Za-z0-9\s-]+)|(?:is\s+)?([A-Za-z0-9\s-]+)\s*(?:available|in\s+stock)`)

// fallbackNamePattern grabs the first plain-text run when the structured
// pattern finds nothing, so the prompt always has something to surface.
var fallbackNamePattern = regexp.MustCompile(`(?i)[A-Za-z0-9\s-]+`)

type rule struct {
	name          string
	match         func(message string) bool
	needsProducts bool
	needsOrders   bool
}

// The substring triggers are case sensitive on purpose. "Order" at the start
// of a sentence does not trip the order rule, matching the long-observed
// behavior of the assistant.
var rules = []rule{
	{
		name:          "product-name",
		match:         func(m string) bool { return ProductMatch(m) != "" },
		needsProducts: true,
	},
	{
		name:          "availability",
		match:         contains("availability"),
		needsProducts: true,
	},
	{
		name:          "price",
		match:         contains("price"),
		needsProducts: true,
	},
	{
		name:          "purchase",
		match:         contains("purchase"),
		needsProducts: true,
	},
	{
		name:        "order",
		match:       contains("order"),
		needsOrders: true,
	},
	{
		name:        "order-status",
		match:       contains("status"),
		needsOrders: true,
	},
}

func contains(trigger string) func(string) bool {
	return func(message string) bool {
		return strings.Contains(message, trigger)
	}
}

// Classify evaluates every rule independently against the message. Multiple
// rules may fire; the decision is the union of their data needs.
func Classify(message string) Decision {
	decision := Decision{ProductMatch: ProductMatch(message)}
	for _, r := range rules {
		if !r.match(message) {
			continue
		}
		if r.needsProducts {
			decision.WantsProducts = true
		}
		if r.needsOrders {
			decision.WantsOrders = true
		}
	}
	return decision
}

// ProductMatch extracts the product name the user appears to be asking
// about. Returns "" only when the message holds no matchable text at all.
func ProductMatch(message string) string {
	if groups := productNamePattern.FindStringSubmatch(message); groups != nil {
		if groups[1] != "" {
			return strings.TrimSpace(groups[1])
		}
		if groups[2] != "" {
			return strings.TrimSpace(groups[2])
		}
	}
	return strings.TrimSpace(fallbackNamePattern.FindString(message))
}
