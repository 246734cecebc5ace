package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// CuponRepository provides data access methods for the cupones table.
type CuponRepository struct {
	db *sqlx.DB
}

// NewCuponRepository creates a new CuponRepository.
func NewCuponRepository(db *sqlx.DB) *CuponRepository {
	return &CuponRepository{db: db}
}

const cuponColumns = `id, codigo, tipo, valor, max_usos, fecha_expira, usos`

// GetByCodigo finds a coupon by its unique code.
func (r *CuponRepository) GetByCodigo(codigo string) (*models.Cupon, error) {
	var c models.Cupon
	if err := r.db.Get(&c, `SELECT `+cuponColumns+` FROM cupones WHERE codigo = $1 LIMIT 1`, codigo); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID finds a coupon by id.
func (r *CuponRepository) GetByID(id int) (*models.Cupon, error) {
	var c models.Cupon
	if err := r.db.Get(&c, `SELECT `+cuponColumns+` FROM cupones WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// List retrieves all coupons.
func (r *CuponRepository) List() ([]*models.Cupon, error) {
	var cupones []*models.Cupon
	if err := r.db.Select(&cupones, `SELECT `+cuponColumns+` FROM cupones ORDER BY id`); err != nil {
		return nil, err
	}
	return cupones, nil
}

// Create inserts a new coupon. A duplicate code surfaces as
// utils.ErrCuponDuplicate via the unique constraint.
func (r *CuponRepository) Create(c *models.Cupon) error {
	const q = `INSERT INTO cupones (codigo, tipo, valor, max_usos, fecha_expira)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING id, usos`
	err := r.db.QueryRowx(q, c.Codigo, c.Tipo, c.Valor, c.MaxUsos, c.FechaExpira).Scan(&c.ID, &c.Usos)
	if isUniqueViolation(err) {
		return utils.ErrCuponDuplicate
	}
	return err
}

// Update updates an existing coupon's terms. The usage counter is never
// rewritten here; only IncrementUsos touches it.
func (r *CuponRepository) Update(c *models.Cupon) error {
	const q = `UPDATE cupones
	           SET codigo = $1, tipo = $2, valor = $3, max_usos = $4, fecha_expira = $5
	           WHERE id = $6`
	_, err := r.db.Exec(q, c.Codigo, c.Tipo, c.Valor, c.MaxUsos, c.FechaExpira, c.ID)
	if isUniqueViolation(err) {
		return utils.ErrCuponDuplicate
	}
	return err
}

// Delete removes a coupon by id.
func (r *CuponRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM cupones WHERE id = $1`, id)
	return err
}

// IncrementUsos records one usage of a coupon. There is no cap check at
// increment time; callers validate beforehand.
func (r *CuponRepository) IncrementUsos(id int) error {
	_, err := r.db.Exec(`UPDATE cupones SET usos = usos + 1 WHERE id = $1`, id)
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
