package models

// Categoria groups products for the storefront.
type Categoria struct {
	ID          int    `db:"id" json:"id"`
	Nombre      string `db:"nombre" json:"nombre"`
	Descripcion string `db:"descripcion" json:"descripcion"`
	Imagen      string `db:"imagen" json:"imagen"`
}
