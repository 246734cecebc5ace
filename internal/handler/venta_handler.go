package handler

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/invoice"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// VentaHandler handles sale HTTP endpoints. Create/update consume multipart
// forms carrying the sale fields, a JSON-encoded detalleVenta list and an
// optional comprobantePago file.
type VentaHandler struct {
	ventas   *service.VentaService
	renderer *invoice.Renderer
	files    *storage.FileStore
}

// NewVentaHandler constructs a VentaHandler.
func NewVentaHandler(ventas *service.VentaService, renderer *invoice.Renderer, files *storage.FileStore) *VentaHandler {
	return &VentaHandler{ventas: ventas, renderer: renderer, files: files}
}

func optionalForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok && v != "" {
		return &v
	}
	return nil
}

// saveComprobante stores an uploaded comprobantePago file, if any.
func (h *VentaHandler) saveComprobante(c *gin.Context) (*string, error) {
	file, err := c.FormFile("comprobantePago")
	if err != nil {
		return nil, nil
	}
	path, err := h.files.SaveUpload(c, file, "comprobantes")
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// Create persists a sale with its line items.
func (h *VentaHandler) Create(c *gin.Context) {
	usuarioID, err := strconv.Atoi(c.PostForm("usuarioId"))
	if err != nil {
		utils.Error(c, 400, "usuarioId inválido")
		return
	}
	metodoPagoID, err := strconv.Atoi(c.PostForm("metodoPagoId"))
	if err != nil {
		utils.Error(c, 400, "metodoPagoId inválido")
		return
	}
	total, err := decimal.NewFromString(c.PostForm("total"))
	if err != nil {
		utils.Error(c, 400, "total inválido")
		return
	}

	comprobante, err := h.saveComprobante(c)
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al guardar el comprobante", err)
		return
	}

	input := service.CreateVentaInput{
		UsuarioID:        usuarioID,
		ClienteID:        optionalForm(c, "clienteId"),
		ClienteNombre:    c.PostForm("nombreCompleto"),
		ClienteTelefono:  c.PostForm("telefono"),
		ClienteCorreo:    c.PostForm("email"),
		ClienteDireccion: optionalForm(c, "direccion"),
		Total:            total,
		MetodoPagoID:     metodoPagoID,
		Estado:           c.PostForm("estado"),
		CuponCodigo:      c.PostForm("cupon"),
		DetalleVenta:     c.PostForm("detalleVenta"),
		ComprobantePath:  comprobante,
	}

	venta, err := h.ventas.Create(c.Request.Context(), input)
	if err != nil {
		if err == utils.ErrDetalleInvalido {
			utils.Error(c, 400, err.Error())
			return
		}
		utils.ErrorDetail(c, 500, "Error al crear la venta", err)
		return
	}
	c.JSON(201, venta)
}

// List returns all sales in aggregate shape.
func (h *VentaHandler) List(c *gin.Context) {
	ventas, err := h.ventas.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al obtener las ventas", err)
		return
	}
	c.JSON(200, ventas)
}

// GetByID returns one sale aggregate.
func (h *VentaHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	venta, err := h.ventas.GetByID(id)
	if err != nil {
		if err == utils.ErrVentaNotFound {
			utils.Error(c, 404, "Venta no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error al obtener la venta", err)
		return
	}
	c.JSON(200, venta)
}

// Update replaces the sale fields and reconciles its line items.
func (h *VentaHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}
	metodoPagoID, err := strconv.Atoi(c.PostForm("metodoPagoId"))
	if err != nil {
		utils.Error(c, 400, "metodoPagoId inválido")
		return
	}
	total, err := decimal.NewFromString(c.PostForm("total"))
	if err != nil {
		utils.Error(c, 400, "total inválido")
		return
	}

	var cuponID *int
	if raw := c.PostForm("cuponId"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, 400, "cuponId inválido")
			return
		}
		cuponID = &n
	}

	comprobante, err := h.saveComprobante(c)
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al guardar el comprobante", err)
		return
	}

	input := service.UpdateVentaInput{
		ClienteID:        optionalForm(c, "clienteId"),
		ClienteNombre:    c.PostForm("clienteNombre"),
		ClienteTelefono:  c.PostForm("clienteTelefono"),
		ClienteCorreo:    c.PostForm("clienteCorreo"),
		ClienteDireccion: optionalForm(c, "clienteDireccion"),
		Total:            total,
		MetodoPagoID:     metodoPagoID,
		Estado:           c.PostForm("estado"),
		CuponID:          cuponID,
		DetalleVenta:     c.PostForm("detalleVenta"),
		ComprobantePath:  comprobante,
	}

	venta, err := h.ventas.Update(c.Request.Context(), id, input)
	if err != nil {
		switch err {
		case utils.ErrVentaNotFound:
			utils.Error(c, 404, "Venta no encontrada")
		case utils.ErrDetalleInvalido:
			utils.Error(c, 400, err.Error())
		default:
			utils.ErrorDetail(c, 500, "Error al actualizar la venta", err)
		}
		return
	}
	c.JSON(200, venta)
}

// SetStatus updates the sale state.
func (h *VentaHandler) SetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	var req struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "Estado inválido")
		return
	}

	venta, err := h.ventas.SetStatus(id, req.Estado)
	if err != nil {
		switch err {
		case utils.ErrEstadoInvalido:
			utils.Error(c, 400, "Estado inválido")
		case utils.ErrVentaNotFound:
			utils.Error(c, 404, "Venta no encontrada")
		default:
			utils.ErrorDetail(c, 500, "Error actualizando el estado de la venta", err)
		}
		return
	}
	c.JSON(200, venta)
}

// Delete removes a sale with its line items and comprobante file.
func (h *VentaHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.ventas.Delete(id); err != nil {
		if err == utils.ErrVentaNotFound {
			utils.Error(c, 404, "Venta no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error al eliminar la venta", err)
		return
	}
	c.JSON(200, gin.H{"message": "Venta eliminada correctamente"})
}

// Invoice renders the sale's PDF invoice and streams it inline. The file is
// fully written to the uploads area before the response body is sent.
func (h *VentaHandler) Invoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	venta, err := h.ventas.GetByID(id)
	if err != nil {
		if err == utils.ErrVentaNotFound {
			utils.Error(c, 404, "Venta no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error generando factura", err)
		return
	}

	fileName := invoice.FileName(venta)
	filePath := h.files.InvoicePath(fileName)

	f, err := os.Create(filePath)
	if err != nil {
		utils.Error(c, 500, "Error generando factura")
		return
	}
	if err := h.renderer.Render(venta, f); err != nil {
		f.Close()
		h.files.Remove(filePath)
		log.Error().Err(err).Int("venta_id", id).Msg("invoice render failed")
		utils.Error(c, 500, "Error generando factura")
		return
	}
	if err := f.Close(); err != nil {
		h.files.Remove(filePath)
		utils.Error(c, 500, "Error generando factura")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "inline; filename="+fileName)
	c.File(filePath)
}
