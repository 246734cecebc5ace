package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

// UsuarioRepository provides data access methods for the usuarios table.
type UsuarioRepository struct {
	db *sqlx.DB
}

// NewUsuarioRepository creates a new UsuarioRepository.
func NewUsuarioRepository(db *sqlx.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

// GetByCorreo finds a user by email.
func (r *UsuarioRepository) GetByCorreo(correo string) (*models.Usuario, error) {
	const q = `SELECT id, correo, password, role, created_at FROM usuarios WHERE correo = $1 LIMIT 1`
	var u models.Usuario
	if err := r.db.Get(&u, q, correo); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID finds a user by id.
func (r *UsuarioRepository) GetByID(id int) (*models.Usuario, error) {
	const q = `SELECT id, correo, password, role, created_at FROM usuarios WHERE id = $1 LIMIT 1`
	var u models.Usuario
	if err := r.db.Get(&u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user.
func (r *UsuarioRepository) Create(u *models.Usuario) error {
	const q = `INSERT INTO usuarios (correo, password, role)
	           VALUES ($1, $2, $3)
	           RETURNING id, created_at`
	return r.db.QueryRowx(q, u.Correo, u.Password, u.Role).Scan(&u.ID, &u.CreatedAt)
}

// Update updates an existing user.
func (r *UsuarioRepository) Update(u *models.Usuario) error {
	const q = `UPDATE usuarios SET correo = $1, password = $2, role = $3 WHERE id = $4`
	_, err := r.db.Exec(q, u.Correo, u.Password, u.Role, u.ID)
	return err
}

// Delete removes a user by id.
func (r *UsuarioRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM usuarios WHERE id = $1`, id)
	return err
}

// List retrieves all users ordered by creation.
func (r *UsuarioRepository) List() ([]*models.Usuario, error) {
	const q = `SELECT id, correo, password, role, created_at FROM usuarios ORDER BY id`
	var users []*models.Usuario
	if err := r.db.Select(&users, q); err != nil {
		return nil, err
	}
	return users, nil
}
