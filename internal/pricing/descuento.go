// Package pricing computes line and document totals for ventas y compras:
// discount resolution, IVA, and the dual-currency mirror of every total.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
)

var (
	ErrDescuentoInvalido = errors.New("descuento inválido: valor negativo o fuera de rango")
	// ErrDescuentoExcedeBase is a warning, not a failure: the discount is
	// clamped to zero and the document still computes.
	ErrDescuentoExcedeBase = errors.New("el descuento global excede el subtotal del documento")
)

// TipoDescuento distingue las tres codificaciones que maneja la tienda.
type TipoDescuento int

const (
	// Porcentaje is a fraction 0..1 applied over the price.
	Porcentaje TipoDescuento = iota
	// MontoBs is a fixed amount in bolívares, converted through the rate
	// before subtracting from the USD price.
	MontoBs
	// MontoUSD is a fixed amount in the pricing currency.
	MontoUSD
)

// Descuento is the tagged discount specification. The zero value (Porcentaje
// con Valor cero) is a no-op discount.
type Descuento struct {
	Tipo  TipoDescuento
	Valor decimal.Decimal
}

// DescuentoPorcentaje builds a percentage discount from a fraction 0..1.
func DescuentoPorcentaje(f decimal.Decimal) Descuento {
	return Descuento{Tipo: Porcentaje, Valor: f}
}

func DescuentoMontoBs(m decimal.Decimal) Descuento {
	return Descuento{Tipo: MontoBs, Valor: m}
}

func DescuentoMontoUSD(m decimal.Decimal) Descuento {
	return Descuento{Tipo: MontoUSD, Valor: m}
}

var uno = decimal.NewFromInt(1)

// Resolver applies the discount to a USD price and returns the discounted
// price, still in USD and not yet rounded; rounding belongs to the caller's
// boundary. Fixed discounts clamp at zero instead of going negative.
func Resolver(precioUSD decimal.Decimal, d Descuento, tasa decimal.Decimal) (decimal.Decimal, error) {
	if d.Valor.IsNegative() {
		return decimal.Zero, ErrDescuentoInvalido
	}
	switch d.Tipo {
	case Porcentaje:
		if d.Valor.GreaterThan(uno) {
			return decimal.Zero, ErrDescuentoInvalido
		}
		return precioUSD.Mul(uno.Sub(d.Valor)), nil
	case MontoBs:
		enUSD, err := money.AUSD(d.Valor, tasa)
		if err != nil {
			return decimal.Zero, err
		}
		return clampCero(precioUSD.Sub(enUSD)), nil
	case MontoUSD:
		return clampCero(precioUSD.Sub(d.Valor)), nil
	default:
		return decimal.Zero, ErrDescuentoInvalido
	}
}

// Aumentar is the symmetric increase variant used by the bulk price-change
// tool: Porcentaje applies precio*(1+f); fixed amounts are added.
func Aumentar(precioUSD decimal.Decimal, d Descuento, tasa decimal.Decimal) (decimal.Decimal, error) {
	if d.Valor.IsNegative() {
		return decimal.Zero, ErrDescuentoInvalido
	}
	switch d.Tipo {
	case Porcentaje:
		return precioUSD.Mul(uno.Add(d.Valor)), nil
	case MontoBs:
		enUSD, err := money.AUSD(d.Valor, tasa)
		if err != nil {
			return decimal.Zero, err
		}
		return precioUSD.Add(enUSD), nil
	case MontoUSD:
		return precioUSD.Add(d.Valor), nil
	default:
		return decimal.Zero, ErrDescuentoInvalido
	}
}

func clampCero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
