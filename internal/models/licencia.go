package models

// LicenciaEstado is the lifecycle state of an activation key.
// A license is created Disponible and moves to Vendido exactly once, when it
// is bound to a sale line item. There is no transition back.
type LicenciaEstado string

const (
	LicenciaDisponible LicenciaEstado = "Disponible"
	LicenciaVendido    LicenciaEstado = "Vendido"
)

// Licencia is a unique activation key for a digital product.
type Licencia struct {
	ID         int            `db:"id" json:"id"`
	ProductoID int            `db:"producto_id" json:"productoId"`
	Clave      string         `db:"clave" json:"clave"`
	Estado     LicenciaEstado `db:"estado" json:"estado"`

	Producto *Producto `db:"-" json:"producto,omitempty"`
}
