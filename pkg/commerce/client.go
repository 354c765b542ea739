package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"support-chat-be/internal/pkg/logger"
)

const (
	productsPath = "/admin/api/2025-01/products.json"
	ordersPath   = "/admin/api/2025-01/orders.json"
)

var errNoCredentials = errors.New("passthrough credentials are not configured")

// Client talks to the commerce platform through an Alloy-style passthrough
// proxy. Every fetch fails soft: on any transport or upstream error the
// caller receives nil and the chat turn proceeds with a null payload.
type Client struct {
	baseURL      string
	apiKey       string
	credentialID string
	httpClient   *http.Client
	log          logger.ILogger
}

func NewClient(baseURL, apiKey, credentialID string, log logger.ILogger) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		credentialID: credentialID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// passthroughRequest is the proxy envelope. The proxy replays Method/Path
// against the connected store using the credential referenced in the URL.
type passthroughRequest struct {
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Body         any               `json:"body,omitempty"`
	Query        map[string]any    `json:"query,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

type wireVariant struct {
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type wireProduct struct {
	Title    string        `json:"title"`
	Variants []wireVariant `json:"variants"`
}

type wireLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type wireOrder struct {
	ID                int64          `json:"id"`
	OrderNumber       int            `json:"order_number"`
	TotalPrice        string         `json:"total_price"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus *string        `json:"fulfillment_status"`
	CreatedAt         string         `json:"created_at"`
	LineItems         []wireLineItem `json:"line_items"`
	Customer          *struct {
		ID int64 `json:"id"`
	} `json:"customer"`
}

type productsEnvelope struct {
	Products []wireProduct   `json:"products"`
	Errors   json.RawMessage `json:"errors"`
}

type ordersEnvelope struct {
	Orders []wireOrder     `json:"orders"`
	Errors json.RawMessage `json:"errors"`
}

// FetchProducts returns the store catalog trimmed to title plus the first
// variant's price and stock level. Returns nil on any failure.
func (c *Client) FetchProducts(ctx context.Context) []ProductSummary {
	body, err := c.do(ctx, passthroughRequest{
		Method: http.MethodGet,
		Path:   productsPath,
	})
	if err != nil {
		c.log.Error("CommerceClient", "Product fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var envelope productsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.log.Error("CommerceClient", "Product payload decode failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if len(envelope.Errors) > 0 && string(envelope.Errors) != "null" {
		c.log.Error("CommerceClient", "Product fetch rejected upstream", map[string]interface{}{
			"errors": string(envelope.Errors),
		})
		return nil
	}

	products := make([]ProductSummary, 0, len(envelope.Products))
	for _, p := range envelope.Products {
		summary := ProductSummary{
			Title:    p.Title,
			Variants: []ProductVariant{},
		}
		if len(p.Variants) > 0 {
			v := p.Variants[0]
			summary.Variants = append(summary.Variants, ProductVariant{
				Price:             v.Price,
				InventoryQuantity: v.InventoryQuantity,
			})
		}
		products = append(products, summary)
	}
	return products
}

// FetchOrders returns the customer's recent orders. An empty customerID
// short-circuits to nil without touching the network. Returns nil on any
// failure.
func (c *Client) FetchOrders(ctx context.Context, customerID string) []OrderSummary {
	if customerID == "" {
		c.log.Warn("CommerceClient", "Order fetch skipped, customer id missing", nil)
		return nil
	}

	body, err := c.do(ctx, passthroughRequest{
		Method: http.MethodGet,
		Path:   ordersPath,
		Query: map[string]any{
			"limit":       20,
			"status":      "any",
			"customer_id": customerID,
		},
	})
	if err != nil {
		c.log.Error("CommerceClient", "Order fetch failed", map[string]interface{}{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return nil
	}

	var envelope ordersEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.log.Error("CommerceClient", "Order payload decode failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if len(envelope.Errors) > 0 && string(envelope.Errors) != "null" {
		c.log.Error("CommerceClient", "Order fetch rejected upstream", map[string]interface{}{
			"errors": string(envelope.Errors),
		})
		return nil
	}

	orders := make([]OrderSummary, 0, len(envelope.Orders))
	for _, o := range envelope.Orders {
		summary := OrderSummary{
			ID:                o.ID,
			OrderNumber:       o.OrderNumber,
			TotalPrice:        o.TotalPrice,
			FinancialStatus:   o.FinancialStatus,
			FulfillmentStatus: "Not Fulfilled",
			CreatedAt:         o.CreatedAt,
			LineItems:         make([]OrderLineItem, 0, len(o.LineItems)),
		}
		if o.FulfillmentStatus != nil && *o.FulfillmentStatus != "" {
			summary.FulfillmentStatus = *o.FulfillmentStatus
		}
		if o.Customer != nil {
			id := o.Customer.ID
			summary.CustomerID = &id
		}
		for _, item := range o.LineItems {
			summary.LineItems = append(summary.LineItems, OrderLineItem{
				Title:    item.Title,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
		orders = append(orders, summary)
	}
	return orders
}

func (c *Client) do(ctx context.Context, preq passthroughRequest) ([]byte, error) {
	if c.apiKey == "" || c.credentialID == "" {
		return nil, errNoCredentials
	}

	payload, err := json.Marshal(preq)
	if err != nil {
		return nil, fmt.Errorf("marshal passthrough request: %w", err)
	}

	endpoint := c.baseURL + "?credentialId=" + url.QueryEscape(c.credentialID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create passthrough request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("passthrough request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read passthrough response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("passthrough returned status %d", resp.StatusCode)
	}
	return body, nil
}
