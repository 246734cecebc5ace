package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// LicenciaRepository provides data access methods for the licencias table,
// including the transactional sale binding.
type LicenciaRepository struct {
	db *sqlx.DB
}

// NewLicenciaRepository creates a new LicenciaRepository.
func NewLicenciaRepository(db *sqlx.DB) *LicenciaRepository {
	return &LicenciaRepository{db: db}
}

const licenciaColumns = `id, producto_id, clave, estado`

// GetByID finds a license by id with its product joined in.
func (r *LicenciaRepository) GetByID(id int) (*models.Licencia, error) {
	const q = `
		SELECT l.id, l.producto_id, l.clave, l.estado,
		       p.id, p.nombre_producto, p.descripcion, p.stock, p.precio_costo,
		       p.precio_publico, p.categoria_id, p.favorito, p.imagen
		FROM licencias l
		JOIN productos p ON p.id = l.producto_id
		WHERE l.id = $1 LIMIT 1`

	var l models.Licencia
	var p models.Producto
	if err := r.db.QueryRowx(q, id).Scan(
		&l.ID, &l.ProductoID, &l.Clave, &l.Estado,
		&p.ID, &p.NombreProducto, &p.Descripcion, &p.Stock, &p.PrecioCosto,
		&p.PrecioPublico, &p.CategoriaID, &p.Favorito, &p.Imagen,
	); err != nil {
		return nil, err
	}
	l.Producto = &p
	return &l, nil
}

// List retrieves all licenses newest-first with the product name joined in.
func (r *LicenciaRepository) List() ([]*models.Licencia, error) {
	const q = `
		SELECT l.id, l.producto_id, l.clave, l.estado, p.nombre_producto
		FROM licencias l
		JOIN productos p ON p.id = l.producto_id
		ORDER BY l.id DESC`

	rows, err := r.db.Queryx(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var licencias []*models.Licencia
	for rows.Next() {
		var l models.Licencia
		var nombre string
		if err := rows.Scan(&l.ID, &l.ProductoID, &l.Clave, &l.Estado, &nombre); err != nil {
			return nil, err
		}
		l.Producto = &models.Producto{ID: l.ProductoID, NombreProducto: nombre}
		licencias = append(licencias, &l)
	}
	return licencias, rows.Err()
}

// GetByProducto retrieves all licenses for a product.
func (r *LicenciaRepository) GetByProducto(productoID int) ([]*models.Licencia, error) {
	var licencias []*models.Licencia
	q := `SELECT ` + licenciaColumns + ` FROM licencias WHERE producto_id = $1 ORDER BY id`
	if err := r.db.Select(&licencias, q, productoID); err != nil {
		return nil, err
	}
	return licencias, nil
}

// Create inserts a new license.
func (r *LicenciaRepository) Create(l *models.Licencia) error {
	const q = `INSERT INTO licencias (producto_id, clave, estado)
	           VALUES ($1, $2, $3)
	           RETURNING id`
	return r.db.QueryRowx(q, l.ProductoID, l.Clave, l.Estado).Scan(&l.ID)
}

// Update updates an existing license.
func (r *LicenciaRepository) Update(l *models.Licencia) error {
	const q = `UPDATE licencias SET producto_id = $1, clave = $2, estado = $3 WHERE id = $4`
	_, err := r.db.Exec(q, l.ProductoID, l.Clave, l.Estado, l.ID)
	return err
}

// Delete removes a license by id.
func (r *LicenciaRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM licencias WHERE id = $1`, id)
	return err
}

// Bind atomically links a license to a sale: it creates a zero-priced line
// item with quantity 1 and marks the license Vendido. The whole
// read-check-write sequence runs in a serializable transaction with the
// license row locked, so of two concurrent binds on the same license exactly
// one observes Disponible; the other fails with ErrLicenciaNotAvailable or
// ErrLicenciaAlreadyAssigned.
func (r *LicenciaRepository) Bind(ctx context.Context, ventaID, licenciaID int) (*models.DetalleVenta, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.Get(&exists, `SELECT 1 FROM ventas WHERE id = $1`, ventaID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrVentaNotFound
		}
		return nil, err
	}

	var l models.Licencia
	err = tx.QueryRowx(`SELECT `+licenciaColumns+` FROM licencias WHERE id = $1 FOR UPDATE`, licenciaID).
		Scan(&l.ID, &l.ProductoID, &l.Clave, &l.Estado)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLicenciaNotFound
		}
		return nil, err
	}

	if l.Estado != models.LicenciaDisponible {
		return nil, utils.ErrLicenciaNotAvailable
	}

	if err := tx.Get(&exists, `SELECT 1 FROM detalle_venta WHERE venta_id = $1 AND licencia_id = $2`, ventaID, licenciaID); err == nil {
		return nil, utils.ErrLicenciaAlreadyAssigned
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	detalle := &models.DetalleVenta{
		VentaID:        ventaID,
		LicenciaID:     &licenciaID,
		Cantidad:       1,
		PrecioUnitario: decimal.Zero,
		Subtotal:       decimal.Zero,
		Licencia:       &models.Licencia{ID: l.ID, ProductoID: l.ProductoID, Clave: l.Clave, Estado: models.LicenciaVendido},
	}

	const insert = `
		INSERT INTO detalle_venta (venta_id, producto_id, licencia_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, NULL, $2, 1, 0, 0)
		RETURNING id`
	if err := tx.QueryRowx(insert, ventaID, licenciaID).Scan(&detalle.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE licencias SET estado = $1 WHERE id = $2`, models.LicenciaVendido, licenciaID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return detalle, nil
}
