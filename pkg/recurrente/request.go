package recurrente

// Item is a checkout line item. Amounts are integer cents in the item
// currency.
type Item struct {
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	AmountInCents int64  `json:"amount_in_cents"`
	Quantity      int    `json:"quantity"`
	ImageURL      string `json:"image_url,omitempty"`
}

// CheckoutRequest creates a hosted checkout session.
type CheckoutRequest struct {
	Items      []Item         `json:"items"`
	SuccessURL string         `json:"success_url"`
	CancelURL  string         `json:"cancel_url"`
	UserID     string         `json:"user_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
