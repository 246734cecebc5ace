package utils

import "errors"

// Domain errors surfaced by services. Handlers map each to an HTTP status
// exactly once at the boundary.
var (
	// License assignment
	ErrVentaNotFound           = errors.New("VENTA_NO_EXISTE")
	ErrLicenciaNotFound        = errors.New("LICENCIA_NO_EXISTE")
	ErrLicenciaNotAvailable    = errors.New("LICENCIA_NO_DISPONIBLE")
	ErrLicenciaAlreadyAssigned = errors.New("LICENCIA_YA_ASIGNADA_EN_ESTA_VENTA")

	// Coupon ledger
	ErrCuponNotFound  = errors.New("CUPON_NO_EXISTE")
	ErrCuponExpired   = errors.New("CUPON_EXPIRADO")
	ErrCuponExhausted = errors.New("CUPON_SIN_USOS")
	ErrCuponDuplicate = errors.New("CUPON_CODIGO_DUPLICADO")

	// Sale input
	ErrEstadoInvalido  = errors.New("ESTADO_INVALIDO")
	ErrDetalleInvalido = errors.New("DETALLE_VENTA_INVALIDO")
)
