package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// cuponStore is the data access surface the coupon ledger needs.
type cuponStore interface {
	GetByCodigo(codigo string) (*models.Cupon, error)
	GetByID(id int) (*models.Cupon, error)
	List() ([]*models.Cupon, error)
	Create(c *models.Cupon) error
	Update(c *models.Cupon) error
	Delete(id int) error
	IncrementUsos(id int) error
}

// cuponSnapshots caches validated coupon rows by code. Nil-able.
type cuponSnapshots interface {
	Get(ctx context.Context, codigo string) *models.Cupon
	Put(ctx context.Context, cupon *models.Cupon)
	Invalidate(ctx context.Context, codigo string)
}

// CuponService is the coupon ledger: it validates codes against expiry and
// usage caps, records usage increments and computes discounts, plus the plain
// coupon CRUD behind the admin endpoints.
type CuponService struct {
	repo  cuponStore
	cache cuponSnapshots
	now   func() time.Time
}

// NewCuponService constructs a CuponService. cache may be nil.
func NewCuponService(repo cuponStore, cache cuponSnapshots) *CuponService {
	return &CuponService{repo: repo, cache: cache, now: time.Now}
}

// Validate checks a coupon code and returns its discount terms.
// Fails with ErrCuponNotFound, ErrCuponExpired or ErrCuponExhausted.
func (s *CuponService) Validate(ctx context.Context, codigo string) (*models.Cupon, error) {
	cupon := s.cachedGet(ctx, codigo)
	if cupon == nil {
		var err error
		cupon, err = s.repo.GetByCodigo(codigo)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, utils.ErrCuponNotFound
			}
			return nil, err
		}
		if s.cache != nil {
			s.cache.Put(ctx, cupon)
		}
	}

	if cupon.FechaExpira != nil && cupon.FechaExpira.Before(s.now()) {
		return nil, utils.ErrCuponExpired
	}
	if cupon.MaxUsos != nil && cupon.Usos >= *cupon.MaxUsos {
		return nil, utils.ErrCuponExhausted
	}
	return cupon, nil
}

func (s *CuponService) cachedGet(ctx context.Context, codigo string) *models.Cupon {
	if s.cache == nil {
		return nil
	}
	return s.cache.Get(ctx, codigo)
}

// RecordUsage increments the usage counter by one. The cap is not re-checked
// here; concurrent usages validated against the same counter value can
// overshoot it.
func (s *CuponService) RecordUsage(ctx context.Context, cupon *models.Cupon) error {
	if err := s.repo.IncrementUsos(cupon.ID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, cupon.Codigo)
	}
	return nil
}

// ComputeDiscount returns the discount amount a coupon grants on a total:
// the coupon value for fixed coupons, total*valor/100 for percentage ones.
func ComputeDiscount(total decimal.Decimal, cupon *models.Cupon) decimal.Decimal {
	if cupon == nil {
		return decimal.Zero
	}
	if cupon.Tipo == models.CuponFijo {
		return cupon.Valor
	}
	return total.Mul(cupon.Valor).Div(decimal.NewFromInt(100))
}

// List returns all coupons.
func (s *CuponService) List() ([]*models.Cupon, error) {
	return s.repo.List()
}

// GetByID returns one coupon, with ErrCuponNotFound when absent.
func (s *CuponService) GetByID(id int) (*models.Cupon, error) {
	cupon, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCuponNotFound
		}
		return nil, err
	}
	return cupon, nil
}

// Create stores a new coupon. Duplicate codes surface as ErrCuponDuplicate.
func (s *CuponService) Create(cupon *models.Cupon) error {
	return s.repo.Create(cupon)
}

// Update rewrites a coupon's terms and drops any cached snapshot.
func (s *CuponService) Update(ctx context.Context, cupon *models.Cupon) error {
	if err := s.repo.Update(cupon); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, cupon.Codigo)
	}
	return nil
}

// Delete removes a coupon.
func (s *CuponService) Delete(ctx context.Context, id int) error {
	cupon, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrCuponNotFound
		}
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, cupon.Codigo)
	}
	return nil
}

// logCuponFailure records a swallowed coupon failure during sale creation.
func logCuponFailure(codigo string, err error) {
	log.Warn().Err(err).Str("codigo", codigo).Msg("coupon could not be applied, creating sale without discount")
}
