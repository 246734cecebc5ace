package recurrente

// CheckoutResponse is the hosted checkout session returned by the API.
type CheckoutResponse struct {
	ID          string `json:"id,omitempty"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status,omitempty"`
}
