package service

import (
	"database/sql"
	"errors"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/repository"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

var (
	// ErrCategoriaNotFound is returned when a category id does not exist.
	ErrCategoriaNotFound = errors.New("categoría no encontrada")
	// ErrCategoriaDuplicada is returned for a taken category name.
	ErrCategoriaDuplicada = errors.New("el nombre de la categoría ya existe")
	// ErrImagenRequerida is returned when a category is created without image.
	ErrImagenRequerida = errors.New("la imagen es obligatoria")
	// ErrImagenDuplicada is returned when the uploaded image is byte-identical
	// to one already stored.
	ErrImagenDuplicada = errors.New("la imagen ya existe en el servidor")
)

// CategoriaService manages categories and their mandatory images.
type CategoriaService struct {
	repo  *repository.CategoriaRepository
	files *storage.FileStore
}

// NewCategoriaService constructs a CategoriaService.
func NewCategoriaService(repo *repository.CategoriaRepository, files *storage.FileStore) *CategoriaService {
	return &CategoriaService{repo: repo, files: files}
}

// List returns all categories.
func (s *CategoriaService) List() ([]*models.Categoria, error) {
	return s.repo.List()
}

// GetByID returns one category.
func (s *CategoriaService) GetByID(id int) (*models.Categoria, error) {
	cat, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoriaNotFound
		}
		return nil, err
	}
	return cat, nil
}

// Create stores a new category. The image is mandatory and rejected when it is
// byte-identical to a file already stored; the name must be unique.
func (s *CategoriaService) Create(nombre, descripcion, imagePath string) (*models.Categoria, error) {
	if imagePath == "" {
		return nil, ErrImagenRequerida
	}

	if err := s.checkDuplicateImage(imagePath); err != nil {
		s.files.Remove(imagePath)
		return nil, err
	}

	if existing, _ := s.repo.GetByNombre(nombre); existing != nil {
		s.files.Remove(imagePath)
		return nil, ErrCategoriaDuplicada
	}

	cat := &models.Categoria{Nombre: nombre, Descripcion: descripcion, Imagen: imagePath}
	if err := s.repo.Create(cat); err != nil {
		s.files.Remove(imagePath)
		return nil, err
	}
	return cat, nil
}

// checkDuplicateImage hashes the fresh upload and compares it against every
// other stored file.
func (s *CategoriaService) checkDuplicateImage(imagePath string) error {
	newHash, err := utils.FileHash(imagePath)
	if err != nil {
		return err
	}

	stored, err := s.files.ListDir("")
	if err != nil {
		return err
	}
	for _, p := range stored {
		if p == imagePath {
			continue
		}
		h, err := utils.FileHash(p)
		if err != nil {
			continue
		}
		if h == newHash {
			return ErrImagenDuplicada
		}
	}
	return nil
}

// Update rewrites a category. A new image replaces the stored file, which is
// deleted first; empty fields keep their stored value.
func (s *CategoriaService) Update(id int, nombre, descripcion, newImage string) (*models.Categoria, error) {
	cat, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoriaNotFound
		}
		return nil, err
	}

	if newImage != "" {
		if cat.Imagen != "" && s.files.Exists(cat.Imagen) {
			s.files.Remove(cat.Imagen)
		}
		cat.Imagen = newImage
	}

	if nombre != "" && nombre != cat.Nombre {
		if existing, _ := s.repo.GetByNombre(nombre); existing != nil && existing.ID != id {
			return nil, ErrCategoriaDuplicada
		}
		cat.Nombre = nombre
	}
	if descripcion != "" {
		cat.Descripcion = descripcion
	}

	if err := s.repo.Update(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Delete removes a category and its image file.
func (s *CategoriaService) Delete(id int) error {
	cat, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCategoriaNotFound
		}
		return err
	}

	if cat.Imagen != "" && s.files.Exists(cat.Imagen) {
		s.files.Remove(cat.Imagen)
	}
	return s.repo.Delete(id)
}
