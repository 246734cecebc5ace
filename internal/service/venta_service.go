package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// ventaStore is the data access surface for the sale aggregate.
type ventaStore interface {
	GetRow(id int) (*models.Venta, error)
	GetAggregate(id int) (*models.Venta, error)
	ListAggregates() ([]*models.Venta, error)
	CreateAggregate(ctx context.Context, v *models.Venta) error
	UpdateAggregate(ctx context.Context, v *models.Venta, detalles []models.DetalleVenta) error
	Delete(id int) error
	UpdateEstado(id int, estado string) (*models.Venta, error)
}

// couponLedger is the slice of the coupon ledger the sale manager uses on
// creation.
type couponLedger interface {
	Validate(ctx context.Context, codigo string) (*models.Cupon, error)
	RecordUsage(ctx context.Context, cupon *models.Cupon) error
}

// VentaService manages the sale aggregate: creation with coupon application
// and comprobante attachment, aggregate reads, line-item reconciliation on
// update, and deletion with file cleanup.
type VentaService struct {
	repo    ventaStore
	cupones couponLedger
	files   *storage.FileStore
}

// NewVentaService constructs a VentaService.
func NewVentaService(repo ventaStore, cupones couponLedger, files *storage.FileStore) *VentaService {
	return &VentaService{repo: repo, cupones: cupones, files: files}
}

// DetalleSpec is one line-item entry of the JSON-encoded detalleVenta field.
type DetalleSpec struct {
	ID             int             `json:"id"`
	ProductoID     *int            `json:"productoId"`
	LicenciaID     *int            `json:"licenciaId"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// CreateVentaInput carries the parsed multipart form of a sale creation.
// Monetary values are stored as supplied; nothing is recomputed.
type CreateVentaInput struct {
	UsuarioID        int
	ClienteID        *string
	ClienteNombre    string
	ClienteTelefono  string
	ClienteCorreo    string
	ClienteDireccion *string
	Total            decimal.Decimal
	MetodoPagoID     int
	Estado           string
	CuponCodigo      string
	DetalleVenta     string // JSON array of DetalleSpec
	ComprobantePath  *string
}

// UpdateVentaInput carries the parsed multipart form of a sale update.
type UpdateVentaInput struct {
	ClienteID        *string
	ClienteNombre    string
	ClienteTelefono  string
	ClienteCorreo    string
	ClienteDireccion *string
	Total            decimal.Decimal
	MetodoPagoID     int
	Estado           string
	CuponID          *int
	DetalleVenta     string // JSON array of DetalleSpec
	ComprobantePath  *string
}

func parseDetalle(raw string) ([]DetalleSpec, error) {
	var specs []DetalleSpec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, utils.ErrDetalleInvalido
	}
	return specs, nil
}

// Create persists a sale with its line items and optional comprobante.
// A supplied coupon code is validated and its usage recorded; validation
// failure is logged and ignored so the sale still goes through without a
// discount.
func (s *VentaService) Create(ctx context.Context, input CreateVentaInput) (*models.Venta, error) {
	specs, err := parseDetalle(input.DetalleVenta)
	if err != nil {
		return nil, err
	}

	var cuponID *int
	if input.CuponCodigo != "" {
		cupon, err := s.cupones.Validate(ctx, input.CuponCodigo)
		if err != nil {
			logCuponFailure(input.CuponCodigo, err)
		} else {
			if err := s.cupones.RecordUsage(ctx, cupon); err != nil {
				logCuponFailure(input.CuponCodigo, err)
			}
			cuponID = &cupon.ID
		}
	}

	estado := input.Estado
	if estado == "" {
		estado = "En Proceso"
	}

	venta := &models.Venta{
		UsuarioID:        input.UsuarioID,
		ClienteID:        input.ClienteID,
		ClienteNombre:    input.ClienteNombre,
		ClienteTelefono:  input.ClienteTelefono,
		ClienteCorreo:    input.ClienteCorreo,
		ClienteDireccion: input.ClienteDireccion,
		Total:            input.Total,
		MetodoPagoID:     input.MetodoPagoID,
		ComprobantePago:  input.ComprobantePath,
		Estado:           estado,
		CuponID:          cuponID,
		DetalleVenta:     specsToDetalles(specs),
	}

	if err := s.repo.CreateAggregate(ctx, venta); err != nil {
		return nil, err
	}

	return s.repo.GetAggregate(venta.ID)
}

func specsToDetalles(specs []DetalleSpec) []models.DetalleVenta {
	detalles := make([]models.DetalleVenta, len(specs))
	for i, d := range specs {
		detalles[i] = models.DetalleVenta{
			ID:             d.ID,
			ProductoID:     d.ProductoID,
			LicenciaID:     d.LicenciaID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
	}
	return detalles
}

// List returns all sales in aggregate shape.
func (s *VentaService) List() ([]*models.Venta, error) {
	return s.repo.ListAggregates()
}

// GetByID returns one sale aggregate, or ErrVentaNotFound.
func (s *VentaService) GetByID(id int) (*models.Venta, error) {
	venta, err := s.repo.GetAggregate(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrVentaNotFound
		}
		return nil, err
	}
	return venta, nil
}

// Update replaces the sale's client/total/payment/state/coupon fields and
// reconciles the line items against the supplied list: items whose id is not
// present are deleted, the rest upserted, atomically with the sale row.
// A newly uploaded comprobante replaces the previous file, which is deleted
// from storage first.
func (s *VentaService) Update(ctx context.Context, id int, input UpdateVentaInput) (*models.Venta, error) {
	existing, err := s.repo.GetRow(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrVentaNotFound
		}
		return nil, err
	}

	specs, err := parseDetalle(input.DetalleVenta)
	if err != nil {
		return nil, err
	}

	comprobante := existing.ComprobantePago
	if input.ComprobantePath != nil {
		if comprobante != nil && s.files.Exists(*comprobante) {
			s.files.Remove(*comprobante)
		}
		comprobante = input.ComprobantePath
	}

	venta := &models.Venta{
		ID:               id,
		ClienteID:        input.ClienteID,
		ClienteNombre:    input.ClienteNombre,
		ClienteTelefono:  input.ClienteTelefono,
		ClienteCorreo:    input.ClienteCorreo,
		ClienteDireccion: input.ClienteDireccion,
		Total:            input.Total,
		MetodoPagoID:     input.MetodoPagoID,
		ComprobantePago:  comprobante,
		Estado:           input.Estado,
		CuponID:          input.CuponID,
	}

	if err := s.repo.UpdateAggregate(ctx, venta, specsToDetalles(specs)); err != nil {
		return nil, err
	}

	return s.repo.GetAggregate(id)
}

// Delete removes a sale, its line items (cascade) and its comprobante file.
// A license bound through a deleted line item stays Vendido.
func (s *VentaService) Delete(id int) error {
	existing, err := s.repo.GetRow(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrVentaNotFound
		}
		return err
	}

	if existing.ComprobantePago != nil && s.files.Exists(*existing.ComprobantePago) {
		s.files.Remove(*existing.ComprobantePago)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	log.Info().Int("venta_id", id).Msg("sale deleted")
	return nil
}

// SetStatus updates the sale state after checking it against the accepted
// set {En_Proceso, Rechazada, Entregada}.
func (s *VentaService) SetStatus(id int, estado string) (*models.Venta, error) {
	if !models.EstadoValido(models.VentaEstado(estado)) {
		return nil, utils.ErrEstadoInvalido
	}

	venta, err := s.repo.UpdateEstado(id, estado)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrVentaNotFound
		}
		return nil, err
	}
	return venta, nil
}
