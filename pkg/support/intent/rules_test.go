package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		message       string
		wantsProducts bool
		wantsOrders   bool
	}{
		{
			name:          "product by name",
			message:       "Do you have product Blue Mug?",
			wantsProducts: true,
		},
		{
			name:          "availability phrasing",
			message:       "is the Blue Mug available",
			wantsProducts: true,
		},
		{
			name:          "price trigger",
			message:       "what is the price of the lamp",
			wantsProducts: true,
		},
		{
			name:          "purchase trigger",
			message:       "I want to purchase a lamp",
			wantsProducts: true,
		},
		{
			name:          "order trigger",
			message:       "where is my order",
			wantsProducts: true,
			wantsOrders:   true,
		},
		{
			name:          "status trigger",
			message:       "what is the status of my delivery",
			wantsProducts: true,
			wantsOrders:   true,
		},
		{
			name:          "capitalized Order does not trigger orders",
			message:       "Order 1042 went missing",
			wantsProducts: true,
			wantsOrders:   false,
		},
		{
			name:          "plain text still surfaces a product match",
			message:       "hello there",
			wantsProducts: true,
		},
		{
			name:          "no matchable text",
			message:       "???",
			wantsProducts: false,
			wantsOrders:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.message)
			if got.WantsProducts != tt.wantsProducts {
				t.Errorf("WantsProducts = %v, want %v", got.WantsProducts, tt.wantsProducts)
			}
			if got.WantsOrders != tt.wantsOrders {
				t.Errorf("WantsOrders = %v, want %v", got.WantsOrders, tt.wantsOrders)
			}
		})
	}
}

func TestProductMatch(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "after product keyword",
			message: "tell me about product Blue Mug",
			want:    "Blue Mug",
		},
		{
			name:    "before available keyword",
			message: "is Blue Mug available?",
			want:    "Blue Mug",
		},
		{
			name:    "before in stock keyword",
			message: "Blue Mug in stock?",
			want:    "Blue Mug",
		},
		{
			name:    "fallback grabs leading text",
			message: "hello there!",
			want:    "hello there",
		},
		{
			name:    "nothing matchable",
			message: "¿?¡!",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductMatch(tt.message); got != tt.want {
				t.Errorf("ProductMatch(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
