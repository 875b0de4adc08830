package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrLineaInvalida = errors.New("línea inválida: precio o cantidad fuera de rango")

// Linea is one sold or purchased line. PrecioUnitario is always in USD, the
// catalog's canonical currency. Regulada marks the tax-exempt products that
// quedan fuera del IVA por completo (no es una alícuota cero).
type Linea struct {
	PrecioUnitario decimal.Decimal
	Cantidad       decimal.Decimal
	Descuento      *Descuento
	AlicuotaIVA    decimal.Decimal // fraction, e.g. 0.16
	Regulada       bool
}

// TotalesLinea are the per-line results in USD. The Bs mirror happens at
// document level, where the rate snapshot lives.
type TotalesLinea struct {
	SubtotalUSD decimal.Decimal
	IVAUSD      decimal.Decimal
	TotalUSD    decimal.Decimal
}

// CalcularLinea computes subtotal, IVA and total for one line. A quantity
// driven to <= 0 by an edit is a removal and must be handled by the caller;
// here it is rejected outright, as is a negative price.
func CalcularLinea(l Linea, tasa decimal.Decimal) (TotalesLinea, error) {
	if l.PrecioUnitario.IsNegative() || !l.Cantidad.IsPositive() {
		return TotalesLinea{}, ErrLineaInvalida
	}
	if l.AlicuotaIVA.IsNegative() {
		return TotalesLinea{}, ErrLineaInvalida
	}

	precio := l.PrecioUnitario
	if l.Descuento != nil {
		var err error
		precio, err = Resolver(precio, *l.Descuento, tasa)
		if err != nil {
			return TotalesLinea{}, err
		}
	}

	subtotal := l.Cantidad.Mul(precio)
	iva := decimal.Zero
	if !l.Regulada {
		iva = subtotal.Mul(l.AlicuotaIVA)
	}

	return TotalesLinea{
		SubtotalUSD: subtotal,
		IVAUSD:      iva,
		TotalUSD:    subtotal.Add(iva),
	}, nil
}
