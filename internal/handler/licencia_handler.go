package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// LicenciaHandler handles activation-key HTTP endpoints, including the
// assignment of a license to an existing sale.
type LicenciaHandler struct {
	licencias *service.LicenciaService
}

// NewLicenciaHandler constructs a LicenciaHandler.
func NewLicenciaHandler(licencias *service.LicenciaService) *LicenciaHandler {
	return &LicenciaHandler{licencias: licencias}
}

type licenciaRequest struct {
	ProductoID *int                   `json:"productoId"`
	Clave      *string                `json:"clave"`
	Estado     *models.LicenciaEstado `json:"estado"`
}

// Create stores a new license.
func (h *LicenciaHandler) Create(c *gin.Context) {
	var req licenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "productoId y clave son requeridos")
		return
	}
	if req.ProductoID == nil || req.Clave == nil || *req.Clave == "" {
		utils.Error(c, 400, "productoId y clave son requeridos")
		return
	}

	l := &models.Licencia{ProductoID: *req.ProductoID, Clave: *req.Clave}
	if req.Estado != nil {
		l.Estado = *req.Estado
	}
	if err := h.licencias.Create(l); err != nil {
		utils.ErrorDetail(c, 500, "Error creando licencia", err)
		return
	}
	c.JSON(201, l)
}

// List returns all licenses newest-first with their product names.
func (h *LicenciaHandler) List(c *gin.Context) {
	licencias, err := h.licencias.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error obteniendo licencias", err)
		return
	}
	c.JSON(200, licencias)
}

// GetByID returns one license with its product.
func (h *LicenciaHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	l, err := h.licencias.GetByID(id)
	if err != nil {
		if err == utils.ErrLicenciaNotFound {
			utils.Error(c, 404, "Licencia no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error obteniendo licencia", err)
		return
	}
	c.JSON(200, l)
}

// GetByProducto returns the licenses of one product.
func (h *LicenciaHandler) GetByProducto(c *gin.Context) {
	productoID, err := strconv.Atoi(c.Param("productoId"))
	if err != nil {
		utils.Error(c, 400, "productoId inválido")
		return
	}

	licencias, err := h.licencias.GetByProducto(productoID)
	if err != nil {
		utils.ErrorDetail(c, 500, "Error obteniendo licencias por producto", err)
		return
	}
	c.JSON(200, licencias)
}

// Update partially updates a license.
func (h *LicenciaHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	var req licenciaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "cuerpo de la petición inválido")
		return
	}

	l, err := h.licencias.Update(id, req.ProductoID, req.Clave, req.Estado)
	if err != nil {
		if err == utils.ErrLicenciaNotFound {
			utils.Error(c, 404, "Licencia no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error actualizando licencia", err)
		return
	}
	c.JSON(200, l)
}

// Delete removes a license.
func (h *LicenciaHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.licencias.Delete(id); err != nil {
		if err == utils.ErrLicenciaNotFound {
			utils.Error(c, 404, "Licencia no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error eliminando licencia", err)
		return
	}
	c.JSON(200, gin.H{"message": "Licencia eliminada correctamente"})
}

// Bind links a license to a sale as a zero-priced line item.
// POST /api/licencia/asignar/detalle/:ventaId with {"licenciaId": n}.
func (h *LicenciaHandler) Bind(c *gin.Context) {
	ventaID, err := strconv.Atoi(c.Param("ventaId"))
	if err != nil {
		utils.Error(c, 400, "ventaId inválido")
		return
	}

	var req struct {
		LicenciaID int `json:"licenciaId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.LicenciaID <= 0 {
		utils.Error(c, 400, "licenciaId es requerido")
		return
	}

	detalle, err := h.licencias.Bind(c.Request.Context(), ventaID, req.LicenciaID)
	if err != nil {
		if status := bindStatus(err); status != 500 {
			utils.Error(c, status, err.Error())
		} else {
			utils.Error(c, 500, "Error al crear el detalle de venta")
		}
		return
	}
	c.JSON(201, detalle)
}

// bindStatus maps the closed set of bind failures to HTTP statuses.
func bindStatus(err error) int {
	switch err {
	case utils.ErrVentaNotFound, utils.ErrLicenciaNotFound:
		return 404
	case utils.ErrLicenciaNotAvailable, utils.ErrLicenciaAlreadyAssigned:
		return 400
	}
	return 500
}
