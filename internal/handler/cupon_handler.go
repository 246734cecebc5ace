package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// CuponHandler handles coupon HTTP endpoints, including the public
// validation endpoint the storefront calls before applying a code.
type CuponHandler struct {
	cupones *service.CuponService
}

// NewCuponHandler constructs a CuponHandler.
func NewCuponHandler(cupones *service.CuponService) *CuponHandler {
	return &CuponHandler{cupones: cupones}
}

type cuponRequest struct {
	Codigo      string          `json:"codigo"`
	Tipo        string          `json:"tipo"`
	Valor       decimal.Decimal `json:"valor"`
	MaxUsos     *int            `json:"maxUsos"`
	FechaExpira *string         `json:"fechaExpira"`
}

func (r *cuponRequest) toModel() (*models.Cupon, string) {
	if r.Codigo == "" || r.Tipo == "" {
		return nil, "codigo y tipo son requeridos"
	}
	cupon := &models.Cupon{
		Codigo:  r.Codigo,
		Tipo:    models.CuponTipo(r.Tipo),
		Valor:   r.Valor,
		MaxUsos: r.MaxUsos,
	}
	if r.FechaExpira != nil && *r.FechaExpira != "" {
		t, err := time.Parse(time.RFC3339, *r.FechaExpira)
		if err != nil {
			return nil, "fechaExpira inválida"
		}
		cupon.FechaExpira = &t
	}
	return cupon, ""
}

// List returns all coupons.
func (h *CuponHandler) List(c *gin.Context) {
	cupones, err := h.cupones.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al obtener los cupones", err)
		return
	}
	c.JSON(200, cupones)
}

// GetByID returns one coupon.
func (h *CuponHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	cupon, err := h.cupones.GetByID(id)
	if err != nil {
		if err == utils.ErrCuponNotFound {
			utils.Error(c, 404, "Cupón no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al obtener el cupón", err)
		return
	}
	c.JSON(200, cupon)
}

// Create stores a new coupon.
func (h *CuponHandler) Create(c *gin.Context) {
	var req cuponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "cuerpo de la petición inválido")
		return
	}
	cupon, msg := req.toModel()
	if msg != "" {
		utils.Error(c, 400, msg)
		return
	}

	if err := h.cupones.Create(cupon); err != nil {
		if err == utils.ErrCuponDuplicate {
			utils.Error(c, 400, "El código del cupón ya existe")
			return
		}
		utils.ErrorDetail(c, 500, "Error al crear el cupón", err)
		return
	}
	c.JSON(201, cupon)
}

// Update rewrites a coupon's terms.
func (h *CuponHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	var req cuponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "cuerpo de la petición inválido")
		return
	}
	cupon, msg := req.toModel()
	if msg != "" {
		utils.Error(c, 400, msg)
		return
	}
	cupon.ID = id

	if err := h.cupones.Update(c.Request.Context(), cupon); err != nil {
		utils.ErrorDetail(c, 500, "Error al actualizar el cupón", err)
		return
	}
	c.JSON(200, cupon)
}

// Delete removes a coupon.
func (h *CuponHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.cupones.Delete(c.Request.Context(), id); err != nil {
		if err == utils.ErrCuponNotFound {
			utils.Error(c, 404, "Cupón no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al eliminar el cupón", err)
		return
	}
	c.JSON(200, gin.H{"message": "Cupón eliminado correctamente"})
}

// Validate checks a coupon code before the storefront applies it.
// Valid coupons return their discount terms only, never the usage counters.
func (h *CuponHandler) Validate(c *gin.Context) {
	var req struct {
		Codigo string `json:"codigo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Codigo == "" {
		utils.Error(c, 400, "codigo es requerido")
		return
	}

	cupon, err := h.cupones.Validate(c.Request.Context(), req.Codigo)
	if err != nil {
		switch err {
		case utils.ErrCuponNotFound:
			utils.Error(c, 404, "Cupón no encontrado")
		case utils.ErrCuponExpired:
			utils.Error(c, 400, "Cupón expirado")
		case utils.ErrCuponExhausted:
			utils.Error(c, 400, "El cupón ya no tiene usos disponibles")
		default:
			utils.ErrorDetail(c, 500, "Error al validar el cupón", err)
		}
		return
	}

	c.JSON(200, gin.H{
		"id":     cupon.ID,
		"codigo": cupon.Codigo,
		"tipo":   cupon.Tipo,
		"valor":  cupon.Valor,
	})
}
