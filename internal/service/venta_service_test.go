package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

type fakeVentaStore struct {
	ventas       map[int]*models.Venta
	nextID       int
	lastDetalles []models.DetalleVenta
}

func newFakeVentaStore() *fakeVentaStore {
	return &fakeVentaStore{ventas: map[int]*models.Venta{}}
}

func (s *fakeVentaStore) GetRow(id int) (*models.Venta, error) {
	v, ok := s.ventas[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return v, nil
}

func (s *fakeVentaStore) GetAggregate(id int) (*models.Venta, error) {
	return s.GetRow(id)
}

func (s *fakeVentaStore) ListAggregates() ([]*models.Venta, error) {
	var out []*models.Venta
	for _, v := range s.ventas {
		out = append(out, v)
	}
	return out, nil
}

func (s *fakeVentaStore) CreateAggregate(ctx context.Context, v *models.Venta) error {
	s.nextID++
	v.ID = s.nextID
	s.ventas[v.ID] = v
	return nil
}

func (s *fakeVentaStore) UpdateAggregate(ctx context.Context, v *models.Venta, detalles []models.DetalleVenta) error {
	if _, ok := s.ventas[v.ID]; !ok {
		return sql.ErrNoRows
	}
	v.DetalleVenta = detalles
	s.ventas[v.ID] = v
	s.lastDetalles = detalles
	return nil
}

func (s *fakeVentaStore) Delete(id int) error {
	delete(s.ventas, id)
	return nil
}

func (s *fakeVentaStore) UpdateEstado(id int, estado string) (*models.Venta, error) {
	v, ok := s.ventas[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	v.Estado = estado
	return v, nil
}

type fakeLedger struct {
	cupon      *models.Cupon
	failWith   error
	usages     int
	validCalls int
}

func (l *fakeLedger) Validate(ctx context.Context, codigo string) (*models.Cupon, error) {
	l.validCalls++
	if l.failWith != nil {
		return nil, l.failWith
	}
	return l.cupon, nil
}

func (l *fakeLedger) RecordUsage(ctx context.Context, cupon *models.Cupon) error {
	l.usages++
	return nil
}

func testFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return files
}

const detalleJSON = `[{"productoId":1,"cantidad":2,"precioUnitario":125,"subtotal":250}]`

func TestCreateVentaInvalidDetalle(t *testing.T) {
	svc := NewVentaService(newFakeVentaStore(), &fakeLedger{}, testFileStore(t))

	_, err := svc.Create(context.Background(), CreateVentaInput{DetalleVenta: "not json"})
	assert.ErrorIs(t, err, utils.ErrDetalleInvalido)
}

func TestCreateVentaDefaultEstado(t *testing.T) {
	store := newFakeVentaStore()
	svc := NewVentaService(store, &fakeLedger{}, testFileStore(t))

	venta, err := svc.Create(context.Background(), CreateVentaInput{
		UsuarioID:    1,
		Total:        decimal.NewFromInt(250),
		MetodoPagoID: 1,
		DetalleVenta: detalleJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "En Proceso", venta.Estado)
	assert.Len(t, venta.DetalleVenta, 1)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(250)))
}

func TestCreateVentaAppliesCoupon(t *testing.T) {
	store := newFakeVentaStore()
	ledger := &fakeLedger{cupon: &models.Cupon{ID: 9, Codigo: "PROMO"}}
	svc := NewVentaService(store, ledger, testFileStore(t))

	venta, err := svc.Create(context.Background(), CreateVentaInput{
		UsuarioID:    1,
		Total:        decimal.NewFromInt(100),
		MetodoPagoID: 1,
		CuponCodigo:  "PROMO",
		DetalleVenta: detalleJSON,
	})
	require.NoError(t, err)
	require.NotNil(t, venta.CuponID)
	assert.Equal(t, 9, *venta.CuponID)
	assert.Equal(t, 1, ledger.usages)
}

func TestCreateVentaSwallowsCouponFailure(t *testing.T) {
	store := newFakeVentaStore()
	ledger := &fakeLedger{failWith: utils.ErrCuponExpired}
	svc := NewVentaService(store, ledger, testFileStore(t))

	venta, err := svc.Create(context.Background(), CreateVentaInput{
		UsuarioID:    1,
		Total:        decimal.NewFromInt(100),
		MetodoPagoID: 1,
		CuponCodigo:  "VIEJO",
		DetalleVenta: detalleJSON,
	})
	require.NoError(t, err)
	assert.Nil(t, venta.CuponID)
	assert.Equal(t, 0, ledger.usages)
	assert.Equal(t, 1, ledger.validCalls)
}

func TestCreateVentaNoCouponNoLedgerCall(t *testing.T) {
	ledger := &fakeLedger{failWith: errors.New("should not be called")}
	svc := NewVentaService(newFakeVentaStore(), ledger, testFileStore(t))

	_, err := svc.Create(context.Background(), CreateVentaInput{
		UsuarioID:    1,
		Total:        decimal.NewFromInt(100),
		MetodoPagoID: 1,
		DetalleVenta: detalleJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.validCalls)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewVentaService(newFakeVentaStore(), &fakeLedger{}, testFileStore(t))

	_, err := svc.GetByID(404)
	assert.ErrorIs(t, err, utils.ErrVentaNotFound)
}

func TestUpdateReplacesComprobante(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.New(dir)
	require.NoError(t, err)

	oldPath := filepath.Join(dir, "comprobantes", "old.png")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	newPath := filepath.Join(dir, "comprobantes", "new.png")
	require.NoError(t, os.WriteFile(newPath, []byte("new"), 0o644))

	store := newFakeVentaStore()
	store.ventas[1] = &models.Venta{ID: 1, ComprobantePago: &oldPath}
	svc := NewVentaService(store, &fakeLedger{}, files)

	venta, err := svc.Update(context.Background(), 1, UpdateVentaInput{
		Total:           decimal.NewFromInt(50),
		MetodoPagoID:    1,
		Estado:          "En Proceso",
		DetalleVenta:    detalleJSON,
		ComprobantePath: &newPath,
	})
	require.NoError(t, err)
	require.NotNil(t, venta.ComprobantePago)
	assert.Equal(t, newPath, *venta.ComprobantePago)

	_, statErr := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(statErr), "old comprobante should be deleted")
}

func TestUpdateReconcilesDetalles(t *testing.T) {
	store := newFakeVentaStore()
	store.ventas[1] = &models.Venta{ID: 1}
	svc := NewVentaService(store, &fakeLedger{}, testFileStore(t))

	_, err := svc.Update(context.Background(), 1, UpdateVentaInput{
		Total:        decimal.NewFromInt(75),
		MetodoPagoID: 2,
		Estado:       "En Proceso",
		DetalleVenta: `[{"id":3,"productoId":1,"cantidad":1,"precioUnitario":75,"subtotal":75}]`,
	})
	require.NoError(t, err)
	require.Len(t, store.lastDetalles, 1)
	assert.Equal(t, 3, store.lastDetalles[0].ID)
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewVentaService(newFakeVentaStore(), &fakeLedger{}, testFileStore(t))

	_, err := svc.Update(context.Background(), 404, UpdateVentaInput{DetalleVenta: detalleJSON})
	assert.ErrorIs(t, err, utils.ErrVentaNotFound)
}

func TestDeleteRemovesComprobante(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "comprobantes", "c.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	store := newFakeVentaStore()
	store.ventas[5] = &models.Venta{ID: 5, ComprobantePago: &path}
	svc := NewVentaService(store, &fakeLedger{}, files)

	require.NoError(t, svc.Delete(5))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, err = store.GetRow(5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSetStatusWhitelist(t *testing.T) {
	store := newFakeVentaStore()
	store.ventas[1] = &models.Venta{ID: 1, Estado: "En Proceso"}
	svc := NewVentaService(store, &fakeLedger{}, testFileStore(t))

	for _, estado := range []string{"En_Proceso", "Rechazada", "Entregada"} {
		venta, err := svc.SetStatus(1, estado)
		require.NoError(t, err, estado)
		assert.Equal(t, estado, venta.Estado)
	}

	_, err := svc.SetStatus(1, "Cancelada")
	assert.ErrorIs(t, err, utils.ErrEstadoInvalido)

	// The stored default spelling is not an accepted transition target.
	_, err = svc.SetStatus(1, "En Proceso")
	assert.ErrorIs(t, err, utils.ErrEstadoInvalido)
}
