package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// fakeLicenciaStore mimics the repository's bind semantics in memory: a
// license binds at most once per sale and only while Disponible.
type fakeLicenciaStore struct {
	licencias map[int]*models.Licencia
	ventas    map[int]bool
	bound     map[[2]int]bool
	nextID    int
}

func newFakeLicenciaStore() *fakeLicenciaStore {
	return &fakeLicenciaStore{
		licencias: map[int]*models.Licencia{},
		ventas:    map[int]bool{},
		bound:     map[[2]int]bool{},
		nextID:    100,
	}
}

func (s *fakeLicenciaStore) GetByID(id int) (*models.Licencia, error) {
	l, ok := s.licencias[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return l, nil
}

func (s *fakeLicenciaStore) List() ([]*models.Licencia, error)                       { return nil, nil }
func (s *fakeLicenciaStore) GetByProducto(productoID int) ([]*models.Licencia, error) { return nil, nil }

func (s *fakeLicenciaStore) Create(l *models.Licencia) error {
	s.nextID++
	l.ID = s.nextID
	s.licencias[l.ID] = l
	return nil
}

func (s *fakeLicenciaStore) Update(l *models.Licencia) error {
	s.licencias[l.ID] = l
	return nil
}

func (s *fakeLicenciaStore) Delete(id int) error {
	delete(s.licencias, id)
	return nil
}

func (s *fakeLicenciaStore) Bind(ctx context.Context, ventaID, licenciaID int) (*models.DetalleVenta, error) {
	if !s.ventas[ventaID] {
		return nil, utils.ErrVentaNotFound
	}
	l, ok := s.licencias[licenciaID]
	if !ok {
		return nil, utils.ErrLicenciaNotFound
	}
	if l.Estado != models.LicenciaDisponible {
		return nil, utils.ErrLicenciaNotAvailable
	}
	if s.bound[[2]int{ventaID, licenciaID}] {
		return nil, utils.ErrLicenciaAlreadyAssigned
	}
	s.bound[[2]int{ventaID, licenciaID}] = true
	l.Estado = models.LicenciaVendido
	s.nextID++
	lid := licenciaID
	return &models.DetalleVenta{ID: s.nextID, VentaID: ventaID, LicenciaID: &lid, Cantidad: 1, Licencia: l}, nil
}

func TestBindMarksLicenseSold(t *testing.T) {
	store := newFakeLicenciaStore()
	store.ventas[1] = true
	store.licencias[10] = &models.Licencia{ID: 10, ProductoID: 5, Clave: "ABC-123", Estado: models.LicenciaDisponible}
	svc := NewLicenciaService(store)

	detalle, err := svc.Bind(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, detalle.Cantidad)
	assert.True(t, detalle.PrecioUnitario.IsZero())
	assert.Equal(t, models.LicenciaVendido, store.licencias[10].Estado)
}

func TestBindUnknownSale(t *testing.T) {
	store := newFakeLicenciaStore()
	store.licencias[10] = &models.Licencia{ID: 10, Estado: models.LicenciaDisponible}
	svc := NewLicenciaService(store)

	_, err := svc.Bind(context.Background(), 99, 10)
	assert.ErrorIs(t, err, utils.ErrVentaNotFound)
}

func TestBindUnknownLicense(t *testing.T) {
	store := newFakeLicenciaStore()
	store.ventas[1] = true
	svc := NewLicenciaService(store)

	_, err := svc.Bind(context.Background(), 1, 999)
	assert.ErrorIs(t, err, utils.ErrLicenciaNotFound)
}

func TestBindSoldLicense(t *testing.T) {
	store := newFakeLicenciaStore()
	store.ventas[1] = true
	store.licencias[10] = &models.Licencia{ID: 10, Estado: models.LicenciaVendido}
	svc := NewLicenciaService(store)

	_, err := svc.Bind(context.Background(), 1, 10)
	assert.ErrorIs(t, err, utils.ErrLicenciaNotAvailable)
}

func TestBindTwiceSameSale(t *testing.T) {
	store := newFakeLicenciaStore()
	store.ventas[1] = true
	store.licencias[10] = &models.Licencia{ID: 10, Estado: models.LicenciaDisponible}
	svc := NewLicenciaService(store)

	_, err := svc.Bind(context.Background(), 1, 10)
	require.NoError(t, err)

	// Second bind fails on state, never on a duplicate row: the first bind
	// already moved the license out of Disponible.
	_, err = svc.Bind(context.Background(), 1, 10)
	assert.ErrorIs(t, err, utils.ErrLicenciaNotAvailable)
}

func TestCreateDefaultsToDisponible(t *testing.T) {
	store := newFakeLicenciaStore()
	svc := NewLicenciaService(store)

	l := &models.Licencia{ProductoID: 5, Clave: "XYZ"}
	require.NoError(t, svc.Create(l))
	assert.Equal(t, models.LicenciaDisponible, l.Estado)
}

func TestUpdatePartial(t *testing.T) {
	store := newFakeLicenciaStore()
	store.licencias[10] = &models.Licencia{ID: 10, ProductoID: 5, Clave: "OLD", Estado: models.LicenciaDisponible}
	svc := NewLicenciaService(store)

	clave := "NEW"
	l, err := svc.Update(10, nil, &clave, nil)
	require.NoError(t, err)
	assert.Equal(t, "NEW", l.Clave)
	assert.Equal(t, 5, l.ProductoID)
	assert.Equal(t, models.LicenciaDisponible, l.Estado)
}

func TestDeleteUnknownLicense(t *testing.T) {
	svc := NewLicenciaService(newFakeLicenciaStore())
	assert.ErrorIs(t, svc.Delete(42), utils.ErrLicenciaNotFound)
}
