package handler

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/manuelveliznajera/backend-SDigitales/internal/config"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
	"github.com/manuelveliznajera/backend-SDigitales/pkg/recurrente"
)

// RecurrenteHandler creates hosted checkout sessions for storefront orders.
type RecurrenteHandler struct {
	client *recurrente.Client
	cfg    config.RecurrenteConfig
}

// NewRecurrenteHandler constructs a RecurrenteHandler.
func NewRecurrenteHandler(client *recurrente.Client, cfg config.RecurrenteConfig) *RecurrenteHandler {
	return &RecurrenteHandler{client: client, cfg: cfg}
}

type checkoutProduct struct {
	Name     string   `json:"name"`
	Precio   *float64 `json:"precio"`
	Cantidad *int     `json:"cantidad"`
	URL      string   `json:"url"`
}

// CreateCheckout validates the order lines, converts prices to integer cents
// and redirects the buyer to the hosted checkout.
func (h *RecurrenteHandler) CreateCheckout(c *gin.Context) {
	var req struct {
		Products      []checkoutProduct `json:"products"`
		CustomerEmail string            `json:"customer_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Products) == 0 {
		utils.Error(c, 400, "No hay productos en la orden")
		return
	}

	items := make([]recurrente.Item, 0, len(req.Products))
	var totalAmount int64
	for _, p := range req.Products {
		if p.Name == "" || p.Precio == nil || p.Cantidad == nil || *p.Cantidad <= 0 {
			utils.Error(c, 400, "Algunos productos son inválidos")
			return
		}
		item := recurrente.Item{
			Name:          p.Name,
			Currency:      "GTQ",
			AmountInCents: int64(math.Round(*p.Precio * 100)),
			Quantity:      *p.Cantidad,
			ImageURL:      p.URL,
		}
		totalAmount += item.AmountInCents * int64(item.Quantity)
		items = append(items, item)
	}

	userID := req.CustomerEmail
	if userID == "" {
		userID = "usuario_default"
	}

	resp, err := h.client.CreateCheckout(c.Request.Context(), recurrente.CheckoutRequest{
		Items:      items,
		SuccessURL: h.cfg.SuccessURL,
		CancelURL:  h.cfg.CancelURL,
		UserID:     userID,
		Metadata:   map[string]any{"totalAmount": totalAmount},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create recurrente checkout")
		utils.Error(c, 500, "No se pudo crear el checkout")
		return
	}

	c.JSON(200, gin.H{"checkout_url": resp.CheckoutURL})
}
