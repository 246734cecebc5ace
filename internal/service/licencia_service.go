package service

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// licenciaStore is the data access surface for license management. Bind must
// be atomic: either the line item exists and the license is Vendido, or
// neither effect is visible.
type licenciaStore interface {
	GetByID(id int) (*models.Licencia, error)
	List() ([]*models.Licencia, error)
	GetByProducto(productoID int) ([]*models.Licencia, error)
	Create(l *models.Licencia) error
	Update(l *models.Licencia) error
	Delete(id int) error
	Bind(ctx context.Context, ventaID, licenciaID int) (*models.DetalleVenta, error)
}

// LicenciaService manages activation keys and their assignment to sales.
type LicenciaService struct {
	repo licenciaStore
}

// NewLicenciaService constructs a LicenciaService.
func NewLicenciaService(repo licenciaStore) *LicenciaService {
	return &LicenciaService{repo: repo}
}

// Bind links a license to a sale as a zero-priced line item and marks it
// Vendido. Failures are the closed set ErrVentaNotFound, ErrLicenciaNotFound,
// ErrLicenciaNotAvailable and ErrLicenciaAlreadyAssigned.
func (s *LicenciaService) Bind(ctx context.Context, ventaID, licenciaID int) (*models.DetalleVenta, error) {
	detalle, err := s.repo.Bind(ctx, ventaID, licenciaID)
	if err != nil {
		log.Warn().Err(err).Int("venta_id", ventaID).Int("licencia_id", licenciaID).Msg("license bind failed")
		return nil, err
	}
	log.Info().Int("venta_id", ventaID).Int("licencia_id", licenciaID).Int("detalle_id", detalle.ID).Msg("license bound to sale")
	return detalle, nil
}

// GetByID returns one license with its product, or ErrLicenciaNotFound.
func (s *LicenciaService) GetByID(id int) (*models.Licencia, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLicenciaNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns all licenses newest-first.
func (s *LicenciaService) List() ([]*models.Licencia, error) {
	return s.repo.List()
}

// GetByProducto returns the licenses belonging to a product.
func (s *LicenciaService) GetByProducto(productoID int) ([]*models.Licencia, error) {
	return s.repo.GetByProducto(productoID)
}

// Create stores a new license, defaulting its state to Disponible.
func (s *LicenciaService) Create(l *models.Licencia) error {
	if l.Estado == "" {
		l.Estado = models.LicenciaDisponible
	}
	return s.repo.Create(l)
}

// Update partially updates a license: zero-valued fields keep their stored
// value.
func (s *LicenciaService) Update(id int, productoID *int, clave *string, estado *models.LicenciaEstado) (*models.Licencia, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLicenciaNotFound
		}
		return nil, err
	}

	if productoID != nil {
		l.ProductoID = *productoID
	}
	if clave != nil {
		l.Clave = *clave
	}
	if estado != nil {
		l.Estado = *estado
	}

	if err := s.repo.Update(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a license, or ErrLicenciaNotFound when absent.
func (s *LicenciaService) Delete(id int) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrLicenciaNotFound
		}
		return err
	}
	return s.repo.Delete(id)
}
