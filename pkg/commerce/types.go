package commerce

// ProductVariant keeps only the pricing and stock fields the assistant
// reasons about. Upstream prices arrive as strings and stay strings.
type ProductVariant struct {
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type ProductSummary struct {
	Title    string           `json:"title"`
	Variants []ProductVariant `json:"variants"`
}

type OrderLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type OrderSummary struct {
	ID                int64           `json:"id"`
	OrderNumber       int             `json:"order_number"`
	TotalPrice        string          `json:"total_price"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	CreatedAt         string          `json:"created_at"`
	LineItems         []OrderLineItem `json:"line_items"`
	CustomerID        *int64          `json:"customer_id"`
}
