package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

// VentaRepository provides data access for sales and their line items. Reads
// return the fully assembled aggregate: line items with product and license,
// plus payment method and coupon. Each read use-case has its own fixed
// projection; there is no dynamic include shaping.
type VentaRepository struct {
	db *sqlx.DB
}

// NewVentaRepository creates a new VentaRepository.
func NewVentaRepository(db *sqlx.DB) *VentaRepository {
	return &VentaRepository{db: db}
}

const ventaAggregateQuery = `
	SELECT v.id, v.usuario_id, v.cliente_id, v.cliente_nombre, v.cliente_telefono,
	       v.cliente_correo, v.cliente_direccion, v.total, v.metodo_pago_id,
	       v.comprobante_pago, v.estado, v.cupon_id, v.fecha,
	       m.id, m.nombre,
	       c.id, c.codigo, c.tipo, c.valor, c.max_usos, c.fecha_expira, c.usos
	FROM ventas v
	JOIN metodos_pago m ON m.id = v.metodo_pago_id
	LEFT JOIN cupones c ON c.id = v.cupon_id`

// scanVentaAggregate scans one row of ventaAggregateQuery.
func scanVentaAggregate(row sqlx.ColScanner) (*models.Venta, error) {
	var v models.Venta
	var mp models.MetodoPago
	var (
		cupID     sql.NullInt64
		cupCodigo sql.NullString
		cupTipo   sql.NullString
		cupValor  decimal.NullDecimal
		cupMax    sql.NullInt64
		cupExpira sql.NullTime
		cupUsos   sql.NullInt64
	)

	if err := row.Scan(
		&v.ID, &v.UsuarioID, &v.ClienteID, &v.ClienteNombre, &v.ClienteTelefono,
		&v.ClienteCorreo, &v.ClienteDireccion, &v.Total, &v.MetodoPagoID,
		&v.ComprobantePago, &v.Estado, &v.CuponID, &v.Fecha,
		&mp.ID, &mp.Nombre,
		&cupID, &cupCodigo, &cupTipo, &cupValor, &cupMax, &cupExpira, &cupUsos,
	); err != nil {
		return nil, err
	}

	v.MetodoPago = &mp
	if cupID.Valid {
		cupon := &models.Cupon{
			ID:     int(cupID.Int64),
			Codigo: cupCodigo.String,
			Tipo:   models.CuponTipo(cupTipo.String),
			Valor:  cupValor.Decimal,
			Usos:   int(cupUsos.Int64),
		}
		if cupMax.Valid {
			max := int(cupMax.Int64)
			cupon.MaxUsos = &max
		}
		if cupExpira.Valid {
			t := cupExpira.Time
			cupon.FechaExpira = &t
		}
		v.Cupon = cupon
	}
	return &v, nil
}

// GetRow returns the bare sale row without relations. Used by update/delete
// paths that only need the comprobante path and existence check.
func (r *VentaRepository) GetRow(id int) (*models.Venta, error) {
	const q = `SELECT id, usuario_id, cliente_id, cliente_nombre, cliente_telefono,
	                  cliente_correo, cliente_direccion, total, metodo_pago_id,
	                  comprobante_pago, estado, cupon_id, fecha
	           FROM ventas WHERE id = $1 LIMIT 1`
	var v models.Venta
	if err := r.db.Get(&v, q, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetAggregate returns a sale with line items, products, licenses, payment
// method and coupon joined in.
func (r *VentaRepository) GetAggregate(id int) (*models.Venta, error) {
	row := r.db.QueryRowx(ventaAggregateQuery+` WHERE v.id = $1 LIMIT 1`, id)
	venta, err := scanVentaAggregate(row)
	if err != nil {
		return nil, err
	}

	detalles, err := r.loadDetalles([]int{venta.ID})
	if err != nil {
		return nil, err
	}
	venta.DetalleVenta = detalles[venta.ID]
	if venta.DetalleVenta == nil {
		venta.DetalleVenta = []models.DetalleVenta{}
	}
	return venta, nil
}

// ListAggregates returns every sale in aggregate shape.
func (r *VentaRepository) ListAggregates() ([]*models.Venta, error) {
	rows, err := r.db.Queryx(ventaAggregateQuery + ` ORDER BY v.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ventas []*models.Venta
	var ids []int
	for rows.Next() {
		v, err := scanVentaAggregate(rows)
		if err != nil {
			return nil, err
		}
		ventas = append(ventas, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return ventas, nil
	}
	detalles, err := r.loadDetalles(ids)
	if err != nil {
		return nil, err
	}
	for _, v := range ventas {
		v.DetalleVenta = detalles[v.ID]
		if v.DetalleVenta == nil {
			v.DetalleVenta = []models.DetalleVenta{}
		}
	}
	return ventas, nil
}

// loadDetalles fetches line items for the given sale ids with product and
// license joined, grouped by sale id and ordered by line item id.
func (r *VentaRepository) loadDetalles(ventaIDs []int) (map[int][]models.DetalleVenta, error) {
	const q = `
		SELECT d.id, d.venta_id, d.producto_id, d.licencia_id, d.cantidad,
		       d.precio_unitario, d.subtotal,
		       p.id, p.nombre_producto, p.descripcion, p.stock, p.precio_costo,
		       p.precio_publico, p.categoria_id, p.favorito, p.imagen,
		       l.id, l.producto_id, l.clave, l.estado
		FROM detalle_venta d
		LEFT JOIN productos p ON p.id = d.producto_id
		LEFT JOIN licencias l ON l.id = d.licencia_id
		WHERE d.venta_id = ANY($1)
		ORDER BY d.venta_id, d.id`

	rows, err := r.db.Queryx(q, pq.Array(ventaIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]models.DetalleVenta, len(ventaIDs))
	for rows.Next() {
		var d models.DetalleVenta
		var (
			pID       sql.NullInt64
			pNombre   sql.NullString
			pDesc     sql.NullString
			pStock    sql.NullInt64
			pCosto    decimal.NullDecimal
			pPublico  decimal.NullDecimal
			pCatID    sql.NullInt64
			pFavorito sql.NullBool
			pImagen   sql.NullString

			lID     sql.NullInt64
			lProdID sql.NullInt64
			lClave  sql.NullString
			lEstado sql.NullString
		)

		if err := rows.Scan(
			&d.ID, &d.VentaID, &d.ProductoID, &d.LicenciaID, &d.Cantidad,
			&d.PrecioUnitario, &d.Subtotal,
			&pID, &pNombre, &pDesc, &pStock, &pCosto,
			&pPublico, &pCatID, &pFavorito, &pImagen,
			&lID, &lProdID, &lClave, &lEstado,
		); err != nil {
			return nil, err
		}

		if pID.Valid {
			d.Producto = &models.Producto{
				ID:             int(pID.Int64),
				NombreProducto: pNombre.String,
				Descripcion:    pDesc.String,
				Stock:          int(pStock.Int64),
				PrecioCosto:    pCosto.Decimal,
				PrecioPublico:  pPublico.Decimal,
				CategoriaID:    int(pCatID.Int64),
				Favorito:       pFavorito.Bool,
				Imagen:         pImagen.String,
			}
		}
		if lID.Valid {
			d.Licencia = &models.Licencia{
				ID:         int(lID.Int64),
				ProductoID: int(lProdID.Int64),
				Clave:      lClave.String,
				Estado:     models.LicenciaEstado(lEstado.String),
			}
		}
		out[d.VentaID] = append(out[d.VentaID], d)
	}
	return out, rows.Err()
}

// CreateAggregate inserts a sale and its line items in one transaction.
// The venta's ID, Fecha and line item IDs are filled in on success.
func (r *VentaRepository) CreateAggregate(ctx context.Context, v *models.Venta) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertVenta = `
		INSERT INTO ventas (usuario_id, cliente_id, cliente_nombre, cliente_telefono,
		                    cliente_correo, cliente_direccion, total, metodo_pago_id,
		                    comprobante_pago, estado, cupon_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, fecha`
	if err := tx.QueryRowx(insertVenta,
		v.UsuarioID, v.ClienteID, v.ClienteNombre, v.ClienteTelefono,
		v.ClienteCorreo, v.ClienteDireccion, v.Total, v.MetodoPagoID,
		v.ComprobantePago, v.Estado, v.CuponID,
	).Scan(&v.ID, &v.Fecha); err != nil {
		return err
	}

	for i := range v.DetalleVenta {
		d := &v.DetalleVenta[i]
		d.VentaID = v.ID
		if err := insertDetalle(tx, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateAggregate updates a sale row and reconciles its line items against
// the supplied list in one transaction: line items whose id is absent from
// the list are deleted, the rest are upserted.
func (r *VentaRepository) UpdateAggregate(ctx context.Context, v *models.Venta, detalles []models.DetalleVenta) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const updateVenta = `
		UPDATE ventas
		SET cliente_id = $1, cliente_nombre = $2, cliente_telefono = $3,
		    cliente_correo = $4, cliente_direccion = $5, total = $6,
		    metodo_pago_id = $7, comprobante_pago = $8, estado = $9, cupon_id = $10
		WHERE id = $11`
	if _, err := tx.Exec(updateVenta,
		v.ClienteID, v.ClienteNombre, v.ClienteTelefono,
		v.ClienteCorreo, v.ClienteDireccion, v.Total,
		v.MetodoPagoID, v.ComprobantePago, v.Estado, v.CuponID, v.ID,
	); err != nil {
		return err
	}

	keep := make([]int, 0, len(detalles))
	for _, d := range detalles {
		if d.ID > 0 {
			keep = append(keep, d.ID)
		}
	}
	if _, err := tx.Exec(
		`DELETE FROM detalle_venta WHERE venta_id = $1 AND NOT (id = ANY($2))`,
		v.ID, pq.Array(keep),
	); err != nil {
		return err
	}

	for i := range detalles {
		d := &detalles[i]
		d.VentaID = v.ID
		if d.ID > 0 {
			res, err := tx.Exec(`
				UPDATE detalle_venta
				SET producto_id = $1, licencia_id = $2, cantidad = $3,
				    precio_unitario = $4, subtotal = $5
				WHERE id = $6 AND venta_id = $7`,
				d.ProductoID, d.LicenciaID, d.Cantidad,
				d.PrecioUnitario, d.Subtotal, d.ID, v.ID,
			)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n > 0 {
				continue
			}
		}
		if err := insertDetalle(tx, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertDetalle(tx *sqlx.Tx, d *models.DetalleVenta) error {
	const q = `
		INSERT INTO detalle_venta (venta_id, producto_id, licencia_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	return tx.QueryRowx(q,
		d.VentaID, d.ProductoID, d.LicenciaID, d.Cantidad, d.PrecioUnitario, d.Subtotal,
	).Scan(&d.ID)
}

// Delete removes a sale; line items cascade via the foreign key.
func (r *VentaRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM ventas WHERE id = $1`, id)
	return err
}

// UpdateEstado sets the sale state and returns the updated bare row.
func (r *VentaRepository) UpdateEstado(id int, estado string) (*models.Venta, error) {
	const q = `UPDATE ventas SET estado = $1 WHERE id = $2
	           RETURNING id, usuario_id, cliente_id, cliente_nombre, cliente_telefono,
	                     cliente_correo, cliente_direccion, total, metodo_pago_id,
	                     comprobante_pago, estado, cupon_id, fecha`
	var v models.Venta
	if err := r.db.QueryRowx(q, estado, id).StructScan(&v); err != nil {
		return nil, err
	}
	return &v, nil
}
