package service

import (
	"database/sql"
	"errors"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/repository"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
)

// ErrProductoNotFound is returned when a product id does not exist.
var ErrProductoNotFound = errors.New("producto no encontrado")

// ProductoService manages the product catalog.
type ProductoService struct {
	repo  *repository.ProductoRepository
	files *storage.FileStore
}

// NewProductoService constructs a ProductoService.
func NewProductoService(repo *repository.ProductoRepository, files *storage.FileStore) *ProductoService {
	return &ProductoService{repo: repo, files: files}
}

// List returns all products with their categories.
func (s *ProductoService) List() ([]*models.Producto, error) {
	return s.repo.List()
}

// GetByID returns one product with its category.
func (s *ProductoService) GetByID(id int) (*models.Producto, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductoNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create stores a new product. The image path, when present, was already
// persisted by the handler.
func (s *ProductoService) Create(p *models.Producto) (*models.Producto, error) {
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(p.ID)
}

// Update rewrites a product. A new image replaces the stored file, which is
// removed from disk first.
func (s *ProductoService) Update(id int, p *models.Producto, newImage *string) (*models.Producto, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductoNotFound
		}
		return nil, err
	}

	p.ID = id
	p.Imagen = existing.Imagen
	if newImage != nil {
		if existing.Imagen != "" && s.files.Exists(existing.Imagen) {
			s.files.Remove(existing.Imagen)
		}
		p.Imagen = *newImage
	}

	if err := s.repo.Update(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// Delete removes a product and its image file.
func (s *ProductoService) Delete(id int) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrProductoNotFound
		}
		return err
	}

	if existing.Imagen != "" && s.files.Exists(existing.Imagen) {
		s.files.Remove(existing.Imagen)
	}
	return s.repo.Delete(id)
}
