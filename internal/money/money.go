// Package money holds the rounding and currency-conversion primitives shared
// by the pricing, payment and reconciliation engines. All monetary values are
// shopspring decimals; prices are canonically stored in USD and converted to
// bolívares through a per-session snapshot of the exchange rate.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Moneda identifies one of the two currencies the system operates in.
// Bs (VES) is the legal/display currency; USD is the pricing currency.
type Moneda string

const (
	Bs  Moneda = "Bs"
	USD Moneda = "USD"
)

var (
	ErrMontoInvalido = errors.New("monto inválido: debe ser un número finito no negativo")
	ErrTasaInvalida  = errors.New("tasa de cambio inválida: debe ser mayor que cero")
)

// Epsilon is the tolerance used for payment-completion and arqueo
// comparisons, in the units of whichever currency is being compared.
var Epsilon = decimal.NewFromFloat(0.01)

// Rol names the semantic role of a value, which decides its precision.
type Rol int

const (
	RolPrecio Rol = iota
	RolCantidad
	RolTotal
	RolPorcentaje
)

// Precisiones is the decimal-places table per semantic role. A snapshot is
// taken from configuration once per computation; it never changes mid-document.
type Precisiones struct {
	Precio     int32
	Cantidad   int32
	Total      int32
	Porcentaje int32
}

// PrecisionesPorDefecto mirrors the store defaults: two decimals everywhere
// except quantities, which allow three (fractional kilos).
func PrecisionesPorDefecto() Precisiones {
	return Precisiones{Precio: 2, Cantidad: 3, Total: 2, Porcentaje: 2}
}

// Redondear rounds v to the precision configured for the given role.
// Rounding happens only at component boundaries; intermediate math keeps
// full precision.
func (p Precisiones) Redondear(v decimal.Decimal, rol Rol) decimal.Decimal {
	switch rol {
	case RolPrecio:
		return v.Round(p.Precio)
	case RolCantidad:
		return v.Round(p.Cantidad)
	case RolPorcentaje:
		return v.Round(p.Porcentaje)
	default:
		return v.Round(p.Total)
	}
}

// Validar rejects negative amounts. The legacy frontend silently turned
// NaN/negative inputs into 0; here they are typed errors resolved at the
// boundary where they occur.
func Validar(monto decimal.Decimal) error {
	if monto.IsNegative() {
		return ErrMontoInvalido
	}
	return nil
}

// ValidarTasa rejects a non-positive exchange rate.
func ValidarTasa(tasa decimal.Decimal) error {
	if !tasa.IsPositive() {
		return ErrTasaInvalida
	}
	return nil
}

// ABs converts a USD amount into bolívares: bs = usd * tasa.
func ABs(usd, tasa decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidarTasa(tasa); err != nil {
		return decimal.Zero, err
	}
	return usd.Mul(tasa), nil
}

// AUSD converts a bolívar amount into USD: usd = bs / tasa.
func AUSD(bs, tasa decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidarTasa(tasa); err != nil {
		return decimal.Zero, err
	}
	// DivisionPrecision (16) is far beyond any configured rounding role,
	// so the round trip stays within Epsilon.
	return bs.Div(tasa), nil
}

// ParseMonto parses a user-supplied amount string into a validated decimal.
// Unparseable or negative input is an error, never a silent zero.
func ParseMonto(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMontoInvalido
	}
	if err := Validar(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
