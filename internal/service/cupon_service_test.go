package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

type fakeCuponStore struct {
	byCodigo   map[string]*models.Cupon
	increments map[int]int
}

func newFakeCuponStore(cupones ...*models.Cupon) *fakeCuponStore {
	s := &fakeCuponStore{byCodigo: map[string]*models.Cupon{}, increments: map[int]int{}}
	for _, c := range cupones {
		s.byCodigo[c.Codigo] = c
	}
	return s
}

func (s *fakeCuponStore) GetByCodigo(codigo string) (*models.Cupon, error) {
	c, ok := s.byCodigo[codigo]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (s *fakeCuponStore) GetByID(id int) (*models.Cupon, error) {
	for _, c := range s.byCodigo {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeCuponStore) List() ([]*models.Cupon, error) { return nil, nil }
func (s *fakeCuponStore) Create(c *models.Cupon) error   { return nil }
func (s *fakeCuponStore) Update(c *models.Cupon) error   { return nil }
func (s *fakeCuponStore) Delete(id int) error            { return nil }

func (s *fakeCuponStore) IncrementUsos(id int) error {
	s.increments[id]++
	return nil
}

func fixedCuponService(store *fakeCuponStore, at time.Time) *CuponService {
	svc := NewCuponService(store, nil)
	svc.now = func() time.Time { return at }
	return svc
}

func TestValidateUnknownCode(t *testing.T) {
	svc := fixedCuponService(newFakeCuponStore(), time.Now())

	_, err := svc.Validate(context.Background(), "NADA")
	assert.ErrorIs(t, err, utils.ErrCuponNotFound)
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	store := newFakeCuponStore(&models.Cupon{
		ID: 1, Codigo: "VIEJO", Tipo: models.CuponFijo,
		Valor: decimal.NewFromInt(10), FechaExpira: &past,
	})
	svc := fixedCuponService(store, now)

	_, err := svc.Validate(context.Background(), "VIEJO")
	assert.ErrorIs(t, err, utils.ErrCuponExpired)
}

func TestValidateExhausted(t *testing.T) {
	max := 3
	store := newFakeCuponStore(&models.Cupon{
		ID: 2, Codigo: "LLENO", Tipo: models.CuponPorcentaje,
		Valor: decimal.NewFromInt(10), MaxUsos: &max, Usos: 3,
	})
	svc := fixedCuponService(store, time.Now())

	_, err := svc.Validate(context.Background(), "LLENO")
	assert.ErrorIs(t, err, utils.ErrCuponExhausted)
}

func TestValidateActiveCoupon(t *testing.T) {
	max := 5
	future := time.Now().Add(24 * time.Hour)
	store := newFakeCuponStore(&models.Cupon{
		ID: 3, Codigo: "PROMO", Tipo: models.CuponFijo,
		Valor: decimal.NewFromInt(25), MaxUsos: &max, Usos: 4, FechaExpira: &future,
	})
	svc := fixedCuponService(store, time.Now())

	cupon, err := svc.Validate(context.Background(), "PROMO")
	require.NoError(t, err)
	assert.Equal(t, 3, cupon.ID)
}

func TestRecordUsageIncrements(t *testing.T) {
	store := newFakeCuponStore(&models.Cupon{ID: 7, Codigo: "USO", Tipo: models.CuponFijo, Valor: decimal.NewFromInt(5)})
	svc := fixedCuponService(store, time.Now())

	cupon, err := svc.Validate(context.Background(), "USO")
	require.NoError(t, err)
	require.NoError(t, svc.RecordUsage(context.Background(), cupon))
	require.NoError(t, svc.RecordUsage(context.Background(), cupon))

	assert.Equal(t, 2, store.increments[7])
}

func TestComputeDiscountFixed(t *testing.T) {
	cupon := &models.Cupon{Tipo: models.CuponFijo, Valor: decimal.NewFromInt(10)}
	got := ComputeDiscount(decimal.NewFromInt(100), cupon)
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestComputeDiscountPercentage(t *testing.T) {
	cupon := &models.Cupon{Tipo: models.CuponPorcentaje, Valor: decimal.NewFromInt(10)}
	got := ComputeDiscount(decimal.NewFromInt(100), cupon)
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestComputeDiscountNoCoupon(t *testing.T) {
	got := ComputeDiscount(decimal.NewFromInt(100), nil)
	assert.True(t, got.IsZero())
}
