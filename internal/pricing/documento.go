package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
)

// Documento is a sale/purchase/ticket pending computation. The exchange-rate
// snapshot is fixed for the document's lifetime; edits produce a new
// computation, never a mutation of stored totals.
type Documento struct {
	Lineas          []Linea
	DescuentoGlobal *Descuento
	Tasa            decimal.Decimal
	Precision       money.Precisiones
}

// TotalesDocumento carries the document aggregates in both currencies. Each
// currency's figures are built from its own unrounded chain and rounded
// independently — TotalBs is never TotalUSD*tasa after rounding, which
// preserves the historical cent-level behavior of the store.
type TotalesDocumento struct {
	SubtotalUSD  decimal.Decimal
	DescuentoUSD decimal.Decimal
	IVAUSD       decimal.Decimal
	TotalUSD     decimal.Decimal

	SubtotalBs  decimal.Decimal
	DescuentoBs decimal.Decimal
	IVABs       decimal.Decimal
	TotalBs     decimal.Decimal

	// Advertencia is ErrDescuentoExcedeBase when a fixed global discount was
	// clamped; the document is still valid.
	Advertencia error
}

// CalcularDocumento aggregates line totals, applies the global discount over
// the post-line-discount subtotal, and rescales the IVA proportionally: the
// global discount se asume distribuido uniformemente entre las líneas
// gravadas, so each line's tax contribution shrinks by the same fraction.
// Regulated lines never contribute IVA, before or after the discount.
func CalcularDocumento(doc Documento) (TotalesDocumento, error) {
	if err := money.ValidarTasa(doc.Tasa); err != nil {
		return TotalesDocumento{}, err
	}

	subtotalUSD := decimal.Zero
	ivaUSD := decimal.Zero
	for _, l := range doc.Lineas {
		tl, err := CalcularLinea(l, doc.Tasa)
		if err != nil {
			return TotalesDocumento{}, err
		}
		subtotalUSD = subtotalUSD.Add(tl.SubtotalUSD)
		ivaUSD = ivaUSD.Add(tl.IVAUSD)
	}

	descuentoUSD, advertencia, err := descuentoGlobalUSD(subtotalUSD, doc.DescuentoGlobal, doc.Tasa)
	if err != nil {
		return TotalesDocumento{}, err
	}

	// Fracción efectiva del descuento sobre la base gravable.
	fraccion := decimal.Zero
	if subtotalUSD.IsPositive() {
		fraccion = descuentoUSD.Div(subtotalUSD)
	}

	subtotalNetoUSD := subtotalUSD.Sub(descuentoUSD)
	ivaAjustadoUSD := ivaUSD.Mul(uno.Sub(fraccion))
	totalUSD := subtotalNetoUSD.Add(ivaAjustadoUSD)

	// Espejo en bolívares sobre la cadena SIN redondear.
	subtotalBs := subtotalUSD.Mul(doc.Tasa)
	descuentoBs := descuentoUSD.Mul(doc.Tasa)
	ivaAjustadoBs := ivaAjustadoUSD.Mul(doc.Tasa)
	totalBs := subtotalBs.Sub(descuentoBs).Add(ivaAjustadoBs)

	// El subtotal reportado es el bruto (tras descuentos de línea, antes del
	// global), de modo que total = subtotal - descuento + iva en ambas monedas.
	p := doc.Precision
	return TotalesDocumento{
		SubtotalUSD:  p.Redondear(subtotalUSD, money.RolTotal),
		DescuentoUSD: p.Redondear(descuentoUSD, money.RolTotal),
		IVAUSD:       p.Redondear(ivaAjustadoUSD, money.RolTotal),
		TotalUSD:     p.Redondear(totalUSD, money.RolTotal),
		SubtotalBs:   p.Redondear(subtotalBs, money.RolTotal),
		DescuentoBs:  p.Redondear(descuentoBs, money.RolTotal),
		IVABs:        p.Redondear(ivaAjustadoBs, money.RolTotal),
		TotalBs:      p.Redondear(totalBs, money.RolTotal),
		Advertencia:  advertencia,
	}, nil
}

// descuentoGlobalUSD resolves the global discount into a USD amount over the
// raw subtotal. A fixed discount against an empty/zero base is clamped to
// zero with ErrDescuentoExcedeBase as a non-fatal warning; one larger than
// the base is capped at the base (the document never goes negative).
func descuentoGlobalUSD(subtotalUSD decimal.Decimal, d *Descuento, tasa decimal.Decimal) (decimal.Decimal, error, error) {
	if d == nil {
		return decimal.Zero, nil, nil
	}
	if d.Valor.IsNegative() {
		return decimal.Zero, nil, ErrDescuentoInvalido
	}

	switch d.Tipo {
	case Porcentaje:
		if d.Valor.GreaterThan(uno) {
			return decimal.Zero, nil, ErrDescuentoInvalido
		}
		return subtotalUSD.Mul(d.Valor), nil, nil
	case MontoBs, MontoUSD:
		monto := d.Valor
		if d.Tipo == MontoBs {
			var err error
			monto, err = money.AUSD(monto, tasa)
			if err != nil {
				return decimal.Zero, nil, err
			}
		}
		if monto.IsZero() {
			return decimal.Zero, nil, nil
		}
		if !subtotalUSD.IsPositive() {
			return decimal.Zero, ErrDescuentoExcedeBase, nil
		}
		if monto.GreaterThan(subtotalUSD) {
			return subtotalUSD, ErrDescuentoExcedeBase, nil
		}
		return monto, nil, nil
	default:
		return decimal.Zero, nil, ErrDescuentoInvalido
	}
}
