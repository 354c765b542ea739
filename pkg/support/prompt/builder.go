package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"support-chat-be/pkg/commerce"
	"support-chat-be/pkg/llm"
)

// historyWindow is how many trailing conversation turns accompany the
// system message.
const historyWindow = 5

// Builder assembles the deterministic system message for one support turn.
// Identical inputs always yield an identical message.
type Builder struct {
	products     []commerce.ProductSummary
	orders       []commerce.OrderSummary
	productMatch string
	customerID   string
	personalize  bool
	displayName  string
}

func NewBuilder(products []commerce.ProductSummary, orders []commerce.OrderSummary, productMatch, customerID string) *Builder {
	return &Builder{
		products:     products,
		orders:       orders,
		productMatch: productMatch,
		customerID:   customerID,
	}
}

// WithPersonalization makes the agent address the customer by name in its
// conversational openers.
func (b *Builder) WithPersonalization(displayName string) *Builder {
	b.personalize = true
	b.displayName = displayName
	return b
}

func (b *Builder) Build() llm.Message {
	var sb strings.Builder

	sb.WriteString(`You are a highly accurate and helpful support agent for my Shopify store. Your purpose is to assist customers with queries about products or their orders, using only the data provided in the "Product Info" and "Order Info" below. Always check the relevant data before responding, switching context based on the query:
- Use "Product Info" for product-related queries (e.g., availability, price, purchase).
- Use "Order Info" for order-related queries (e.g., status, order).
Respond conversationally in Markdown format with **bold** for emphasis, *italics* for notes, and bullet points for lists. Follow these strict rules:

1. **Always Use Relevant Store Data**:
   - If "Product Info" exists and the query includes "product," "availability," "price," or "purchase," it's an array of products, each with:
     - ` + "`title`" + `: The product name.
     - ` + "`variants`" + `: An array where ` + "`variants[0]`" + ` contains:
       - ` + "`price`" + `: The product price as a string.
       - ` + "`inventory_quantity`" + `: The number of units in stock.
     - Search for a matching ` + "`title`" + ` (fuzzy or partial match). If no match or "Product Info" is null, respond with: "Sorry, I couldn't find that product in our store. Please check the product name or try another query."
   - If "Order Info" exists and the query includes "order" or "status," it's an array of recent orders for the logged-in user (based on Customer ID), each with:
     - ` + "`id`" + `: The order ID.
     - ` + "`order_number`" + `: The order number.
     - ` + "`total_price`" + `: The total price as a string.
     - ` + "`financial_status`" + `: The payment status (e.g., "paid," "pending").
     - ` + "`fulfillment_status`" + `: The fulfillment status (e.g., "fulfilled," "pending," "Not Fulfilled").
     - ` + "`created_at`" + `: The order creation date.
     - ` + "`line_items`" + `: An array of items with ` + "`title`" + `, ` + "`quantity`" + `, and ` + "`price`" + `.
     - Search for matching orders. If no match or "Order Info" is null, respond with: "Sorry, I couldn't find any order details for you. Please try again later or provide your customer ID."

2. **Product-Related Queries**:
   - **Availability**: If the query includes "availability" or "in stock," use ` + "`variants[0].inventory_quantity`" + `. If 0 or missing, say: "**[title]** is currently out of stock." If > 0, say: "**[title]** is in stock with [variants[0].inventory_quantity] units available."
   - **Pricing**: If the query includes "price," use ` + "`variants[0].price`" + `. Respond with: "**[title]** is priced at $[variants[0].price]."
   - **Simulated Purchases**: If the query includes "purchase" or "buy," simulate the order with: "**Order Simulated**: You've successfully added **[title]** ($[variants[0].price]) to your cart. Please visit our store to complete the purchase (this is a simulation and doesn't process payment)."

3. **Order-Related Queries**:
   - **Order Status**: For queries like "order status" or "where's my order?", list recent orders with: "**Order #[order_number]** - Financial Status: [financial_status], Fulfillment Status: [fulfillment_status], Created: [created_at]. Items: [line_items details (e.g., title (quantity units, $price))]."
     - Use bullet points for multiple orders (e.g., "- **Order #7965**...").
   - **General Questions**: For queries like "shipping status" or "when was my order placed?", provide details (e.g., fulfillment status or created_at) or say: "*I can provide details for your recent orders. Please specify an order number or ask about a specific status.*"

4. **No Assumptions**: Do not guess or invent details. Use only "Product Info" for products or "Order Info" for orders. For orders, ensure the information corresponds to the provided Customer ID (the logged-in user).

5. **Markdown Formatting**: Always use Markdown. Use **bold** for titles, prices, order numbers, statuses, *italics* for notes, and bullet points for lists.

6. **Conversational Tone**: `)
	sb.WriteString(b.toneRule())
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Product Info: %s\n", serializeProducts(b.products))
	fmt.Fprintf(&sb, "Order Info: %s\n", serializeOrders(b.orders))
	fmt.Fprintf(&sb, "Product Match from User: %s\n", orNone(b.productMatch))
	fmt.Fprintf(&sb, "Customer ID: %s\n", orNone(b.customerID))

	sb.WriteString("\nRespond briefly and concisely in Markdown, focusing on the relevant data (products or orders) based on the query. For order-related queries, only provide information related to the Customer ID.")

	return llm.Message{
		Role:    llm.RoleSystem,
		Content: sb.String(),
	}
}

func (b *Builder) toneRule() string {
	if b.personalize && b.displayName != "" {
		return fmt.Sprintf(`Be friendly and concise, and address the customer by name, e.g., "Hi %s! Let me check that for you..." for products, or "Hi %s! I'd be happy to help with that. Let me check your orders..." for orders.`, b.displayName, b.displayName)
	}
	return `Be friendly and concise, e.g., "Hi! Let me check that for you..." for products, or "Hi! I'd be happy to help with that. Let me check your orders..." for orders.`
}

// serializeProducts renders the literal "null" when no data was fetched so
// the model takes its missing-data branch instead of seeing an empty list.
func serializeProducts(products []commerce.ProductSummary) string {
	if products == nil {
		return "null"
	}
	return mustJSON(products)
}

func serializeOrders(orders []commerce.OrderSummary) string {
	if orders == nil {
		return "null"
	}
	return mustJSON(orders)
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// Assemble prepends the system message to the most recent turns of the
// conversation, preserving their original order.
func Assemble(system llm.Message, history []llm.Message) []llm.Message {
	trimmed := history
	if len(trimmed) > historyWindow {
		trimmed = trimmed[len(trimmed)-historyWindow:]
	}
	outbound := make([]llm.Message, 0, len(trimmed)+1)
	outbound = append(outbound, system)
	outbound = append(outbound, trimmed...)
	return outbound
}
