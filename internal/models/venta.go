package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VentaEstado enumerates the states a sale moves through. The stored default
// is "En Proceso" (with a space); the status-update endpoint accepts the
// underscore variants used by the admin frontend.
type VentaEstado string

const (
	VentaEnProceso VentaEstado = "En_Proceso"
	VentaRechazada VentaEstado = "Rechazada"
	VentaEntregada VentaEstado = "Entregada"
)

// EstadoValido reports whether s is one of the accepted status values for
// the status-update endpoint.
func EstadoValido(s VentaEstado) bool {
	switch s {
	case VentaEnProceso, VentaRechazada, VentaEntregada:
		return true
	}
	return false
}

// MetodoPago is a payment method reference (seeded catalog table).
type MetodoPago struct {
	ID     int    `db:"id" json:"id"`
	Nombre string `db:"nombre" json:"nombre"`
}

// Venta is a sale aggregate root. Monetary fields are caller-supplied and
// stored as received; the server does not recompute totals.
type Venta struct {
	ID               int             `db:"id" json:"id"`
	UsuarioID        int             `db:"usuario_id" json:"usuarioId"`
	ClienteID        *string         `db:"cliente_id" json:"clienteId,omitempty"`
	ClienteNombre    string          `db:"cliente_nombre" json:"clienteNombre"`
	ClienteTelefono  string          `db:"cliente_telefono" json:"clienteTelefono"`
	ClienteCorreo    string          `db:"cliente_correo" json:"clienteCorreo"`
	ClienteDireccion *string         `db:"cliente_direccion" json:"clienteDireccion,omitempty"`
	Total            decimal.Decimal `db:"total" json:"total"`
	MetodoPagoID     int             `db:"metodo_pago_id" json:"metodoPagoId"`
	ComprobantePago  *string         `db:"comprobante_pago" json:"comprobantePago,omitempty"`
	Estado           string          `db:"estado" json:"estado"`
	CuponID          *int            `db:"cupon_id" json:"cuponId,omitempty"`
	Fecha            time.Time       `db:"fecha" json:"fecha"`

	DetalleVenta []DetalleVenta `db:"-" json:"detalleVenta"`
	MetodoPago   *MetodoPago    `db:"-" json:"metodoPago,omitempty"`
	Cupon        *Cupon         `db:"-" json:"cupon,omitempty"`
}

// DetalleVenta is a sale line item. Product lines are inventory sales;
// license lines are one-off digital-key sales recorded with quantity 1 and
// zero price.
type DetalleVenta struct {
	ID             int             `db:"id" json:"id"`
	VentaID        int             `db:"venta_id" json:"ventaId"`
	ProductoID     *int            `db:"producto_id" json:"productoId,omitempty"`
	LicenciaID     *int            `db:"licencia_id" json:"licenciaId,omitempty"`
	Cantidad       int             `db:"cantidad" json:"cantidad"`
	PrecioUnitario decimal.Decimal `db:"precio_unitario" json:"precioUnitario"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`

	Producto *Producto `db:"-" json:"producto,omitempty"`
	Licencia *Licencia `db:"-" json:"licencia,omitempty"`
}
