package prompt

import (
	"strings"
	"testing"

	"support-chat-be/pkg/commerce"
	"support-chat-be/pkg/llm"
)

func TestBuildWithNoData(t *testing.T) {
	msg := NewBuilder(nil, nil, "", "").Build()

	if msg.Role != llm.RoleSystem {
		t.Fatalf("role = %q, want %q", msg.Role, llm.RoleSystem)
	}
	for _, want := range []string{
		"Product Info: null\n",
		"Order Info: null\n",
		"Product Match from User: none\n",
		"Customer ID: none\n",
	} {
		if !strings.Contains(msg.Content, want) {
			t.Errorf("content missing %q", want)
		}
	}
}

func TestBuildEmbedsFetchedData(t *testing.T) {
	products := []commerce.ProductSummary{
		{Title: "Blue Mug", Variants: []commerce.ProductVariant{{Price: "12.50", InventoryQuantity: 0}}},
	}
	customerID := int64(42)
	orders := []commerce.OrderSummary{
		{ID: 9001, OrderNumber: 1042, TotalPrice: "55.00", FinancialStatus: "paid", FulfillmentStatus: "Not Fulfilled", CreatedAt: "2024-02-01T10:00:00Z", LineItems: []commerce.OrderLineItem{}, CustomerID: &customerID},
	}

	msg := NewBuilder(products, orders, "Blue Mug", "42").Build()

	// Zero stock must appear verbatim so the model takes its out-of-stock
	// branch.
	if !strings.Contains(msg.Content, `"inventory_quantity":0`) {
		t.Error("content missing zero inventory quantity")
	}
	if !strings.Contains(msg.Content, `"title":"Blue Mug"`) {
		t.Error("content missing product title")
	}
	if !strings.Contains(msg.Content, `"order_number":1042`) {
		t.Error("content missing order number")
	}
	if !strings.Contains(msg.Content, "Product Match from User: Blue Mug\n") {
		t.Error("content missing product match")
	}
	if !strings.Contains(msg.Content, "Customer ID: 42\n") {
		t.Error("content missing customer id")
	}
}

func TestBuildEmptySliceIsNotNull(t *testing.T) {
	msg := NewBuilder([]commerce.ProductSummary{}, nil, "", "").Build()

	if !strings.Contains(msg.Content, "Product Info: []\n") {
		t.Error("empty catalog should serialize as [], not null")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	products := []commerce.ProductSummary{
		{Title: "Lamp", Variants: []commerce.ProductVariant{{Price: "30.00", InventoryQuantity: 3}}},
	}

	first := NewBuilder(products, nil, "Lamp", "42").Build()
	second := NewBuilder(products, nil, "Lamp", "42").Build()

	if first.Content != second.Content {
		t.Error("identical inputs produced different prompts")
	}
}

func TestBuildPersonalization(t *testing.T) {
	plain := NewBuilder(nil, nil, "", "").Build()
	personalized := NewBuilder(nil, nil, "", "").WithPersonalization("Dana").Build()

	if strings.Contains(plain.Content, "Dana") {
		t.Error("plain prompt should not mention a display name")
	}
	if !strings.Contains(personalized.Content, "Hi Dana!") {
		t.Error("personalized prompt should greet the customer by name")
	}
}

func TestAssembleTrimsHistory(t *testing.T) {
	system := llm.Message{Role: llm.RoleSystem, Content: "sys"}

	tests := []struct {
		name    string
		history []llm.Message
		want    []string
	}{
		{
			name:    "empty history",
			history: nil,
			want:    []string{"sys"},
		},
		{
			name: "short history kept whole",
			history: []llm.Message{
				{Role: llm.RoleUser, Content: "a"},
				{Role: llm.RoleAssistant, Content: "b"},
			},
			want: []string{"sys", "a", "b"},
		},
		{
			name: "long history keeps last five in order",
			history: []llm.Message{
				{Role: llm.RoleUser, Content: "1"},
				{Role: llm.RoleAssistant, Content: "2"},
				{Role: llm.RoleUser, Content: "3"},
				{Role: llm.RoleAssistant, Content: "4"},
				{Role: llm.RoleUser, Content: "5"},
				{Role: llm.RoleAssistant, Content: "6"},
				{Role: llm.RoleUser, Content: "7"},
			},
			want: []string{"sys", "3", "4", "5", "6", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(system, tt.history)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, content := range tt.want {
				if got[i].Content != content {
					t.Errorf("outbound[%d].Content = %q, want %q", i, got[i].Content, content)
				}
			}
		})
	}
}
