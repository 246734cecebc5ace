package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

// ProductoRepository provides data access methods for the productos table.
// Read methods return the product with its category joined in, matching the
// aggregate shape the admin frontend consumes.
type ProductoRepository struct {
	db *sqlx.DB
}

// NewProductoRepository creates a new ProductoRepository.
func NewProductoRepository(db *sqlx.DB) *ProductoRepository {
	return &ProductoRepository{db: db}
}

const productoJoinQuery = `
	SELECT p.id, p.nombre_producto, p.descripcion, p.stock, p.precio_costo,
	       p.precio_publico, p.categoria_id, p.favorito, p.imagen,
	       c.id, c.nombre, c.descripcion, c.imagen
	FROM productos p
	JOIN categorias c ON c.id = p.categoria_id`

func scanProductoJoin(row sqlx.ColScanner) (*models.Producto, error) {
	var p models.Producto
	var cat models.Categoria
	if err := row.Scan(
		&p.ID, &p.NombreProducto, &p.Descripcion, &p.Stock, &p.PrecioCosto,
		&p.PrecioPublico, &p.CategoriaID, &p.Favorito, &p.Imagen,
		&cat.ID, &cat.Nombre, &cat.Descripcion, &cat.Imagen,
	); err != nil {
		return nil, err
	}
	p.Categoria = &cat
	return &p, nil
}

// GetByID finds a product by id with its category.
func (r *ProductoRepository) GetByID(id int) (*models.Producto, error) {
	row := r.db.QueryRowx(productoJoinQuery+` WHERE p.id = $1 LIMIT 1`, id)
	p, err := scanProductoJoin(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all products with their categories.
func (r *ProductoRepository) List() ([]*models.Producto, error) {
	rows, err := r.db.Queryx(productoJoinQuery + ` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var productos []*models.Producto
	for rows.Next() {
		p, err := scanProductoJoin(rows)
		if err != nil {
			return nil, err
		}
		productos = append(productos, p)
	}
	return productos, rows.Err()
}

// Create inserts a new product.
func (r *ProductoRepository) Create(p *models.Producto) error {
	const q = `INSERT INTO productos (nombre_producto, descripcion, stock, precio_costo,
	                                  precio_publico, categoria_id, favorito, imagen)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	           RETURNING id`
	return r.db.QueryRowx(q,
		p.NombreProducto, p.Descripcion, p.Stock, p.PrecioCosto,
		p.PrecioPublico, p.CategoriaID, p.Favorito, p.Imagen,
	).Scan(&p.ID)
}

// Update updates an existing product.
func (r *ProductoRepository) Update(p *models.Producto) error {
	const q = `UPDATE productos
	           SET nombre_producto = $1, descripcion = $2, stock = $3, precio_costo = $4,
	               precio_publico = $5, categoria_id = $6, favorito = $7, imagen = $8
	           WHERE id = $9`
	_, err := r.db.Exec(q,
		p.NombreProducto, p.Descripcion, p.Stock, p.PrecioCosto,
		p.PrecioPublico, p.CategoriaID, p.Favorito, p.Imagen, p.ID,
	)
	return err
}

// Delete removes a product by id.
func (r *ProductoRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM productos WHERE id = $1`, id)
	return err
}
