package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

// CategoriaRepository provides data access methods for the categorias table.
type CategoriaRepository struct {
	db *sqlx.DB
}

// NewCategoriaRepository creates a new CategoriaRepository.
func NewCategoriaRepository(db *sqlx.DB) *CategoriaRepository {
	return &CategoriaRepository{db: db}
}

// GetByID finds a category by id.
func (r *CategoriaRepository) GetByID(id int) (*models.Categoria, error) {
	const q = `SELECT id, nombre, descripcion, imagen FROM categorias WHERE id = $1 LIMIT 1`
	var cat models.Categoria
	if err := r.db.Get(&cat, q, id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByNombre finds a category by its unique name.
func (r *CategoriaRepository) GetByNombre(nombre string) (*models.Categoria, error) {
	const q = `SELECT id, nombre, descripcion, imagen FROM categorias WHERE nombre = $1 LIMIT 1`
	var cat models.Categoria
	if err := r.db.Get(&cat, q, nombre); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create inserts a new category.
func (r *CategoriaRepository) Create(cat *models.Categoria) error {
	const q = `INSERT INTO categorias (nombre, descripcion, imagen)
	           VALUES ($1, $2, $3)
	           RETURNING id`
	return r.db.QueryRowx(q, cat.Nombre, cat.Descripcion, cat.Imagen).Scan(&cat.ID)
}

// Update updates an existing category.
func (r *CategoriaRepository) Update(cat *models.Categoria) error {
	const q = `UPDATE categorias SET nombre = $1, descripcion = $2, imagen = $3 WHERE id = $4`
	_, err := r.db.Exec(q, cat.Nombre, cat.Descripcion, cat.Imagen, cat.ID)
	return err
}

// Delete removes a category by id.
func (r *CategoriaRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM categorias WHERE id = $1`, id)
	return err
}

// List retrieves all categories.
func (r *CategoriaRepository) List() ([]*models.Categoria, error) {
	const q = `SELECT id, nombre, descripcion, imagen FROM categorias ORDER BY id`
	var cats []*models.Categoria
	if err := r.db.Select(&cats, q); err != nil {
		return nil, err
	}
	return cats, nil
}
