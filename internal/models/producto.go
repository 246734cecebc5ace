package models

import "github.com/shopspring/decimal"

// Producto is a catalog item. Stock applies to inventory products only;
// license-backed digital goods carry their own per-key rows in licencias.
type Producto struct {
	ID             int             `db:"id" json:"id"`
	NombreProducto string          `db:"nombre_producto" json:"nombreProducto"`
	Descripcion    string          `db:"descripcion" json:"descripcion"`
	Stock          int             `db:"stock" json:"stock"`
	PrecioCosto    decimal.Decimal `db:"precio_costo" json:"precioCosto"`
	PrecioPublico  decimal.Decimal `db:"precio_publico" json:"precioPublico"`
	CategoriaID    int             `db:"categoria_id" json:"categoriaId"`
	Favorito       bool            `db:"favorito" json:"favorito"`
	Imagen         string          `db:"imagen" json:"imagen"`

	Categoria *Categoria `db:"-" json:"categoria,omitempty"`
}
