package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CuponTipo distinguishes fixed-amount coupons from percentage coupons.
type CuponTipo string

const (
	CuponFijo       CuponTipo = "fijo"
	CuponPorcentaje CuponTipo = "porcentaje"
)

// Cupon is a discount code with an optional usage cap and expiry.
// Usos counts recorded usages; the cap is enforced at validation time,
// not at increment time.
type Cupon struct {
	ID          int             `db:"id" json:"id"`
	Codigo      string          `db:"codigo" json:"codigo"`
	Tipo        CuponTipo       `db:"tipo" json:"tipo"`
	Valor       decimal.Decimal `db:"valor" json:"valor"`
	MaxUsos     *int            `db:"max_usos" json:"maxUsos,omitempty"`
	FechaExpira *time.Time      `db:"fecha_expira" json:"fechaExpira,omitempty"`
	Usos        int             `db:"usos" json:"usos"`
}
