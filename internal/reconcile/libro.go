package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
)

// Clave identifies one reconciliation bucket.
type Clave struct {
	Etiqueta string
	Moneda   money.Moneda
}

// Cubeta is one bucket of expected cash/funds.
type Cubeta struct {
	Etiqueta string
	Moneda   money.Moneda
	Esperado decimal.Decimal
}

// TipoMovimiento marca un movimiento manual de caja.
type TipoMovimiento string

const (
	Entrada TipoMovimiento = "entrada"
	Salida  TipoMovimiento = "salida"
)

// Movimiento is a manual, non-sale cash event. Whatever its originating UI
// label, it always lands in the Efectivo bucket of its currency.
type Movimiento struct {
	Tipo     TipoMovimiento
	Moneda   money.Moneda
	Monto    decimal.Decimal
	Concepto string
}

// Diferencia is one bucket's expected-vs-counted comparison.
type Diferencia struct {
	Cubeta   Clave
	Esperado decimal.Decimal
	Contado  decimal.Decimal
	Delta    decimal.Decimal
}

// Informe is the arqueo result. Cuadra is false when any bucket deviates
// beyond the epsilon of its own currency.
type Informe struct {
	Cuadra      bool
	Diferencias []Diferencia
}

// Libro is the per-session reconciliation ledger. It is a pure aggregator:
// one instance per open session, mutated only by the goroutine attending
// that register (bucket updates are read-modify-write).
type Libro struct {
	montos map[Clave]decimal.Decimal
}

// NewLibro seeds the Efectivo buckets with the session's opening balances.
func NewLibro(saldoInicialBs, saldoInicialUSD decimal.Decimal) *Libro {
	l := &Libro{montos: make(map[Clave]decimal.Decimal)}
	if !saldoInicialBs.IsZero() {
		l.sumar(Clave{EtiquetaEfectivo, money.Bs}, saldoInicialBs)
	}
	if !saldoInicialUSD.IsZero() {
		l.sumar(Clave{EtiquetaEfectivo, money.USD}, saldoInicialUSD)
	}
	return l
}

func (l *Libro) sumar(k Clave, m decimal.Decimal) {
	l.montos[k] = l.montos[k].Add(m)
}

// IngresarPago buckets one committed payment allocation. signo is +1 for
// ventas y cobros de deuda, -1 for compras y pagos de deuda; outgoing money
// only leaves the drawer when it is cash, so negative non-cash allocations
// are ignored.
func (l *Libro) IngresarPago(asig payment.Asignacion, signo int) {
	etiqueta := EtiquetaCanonica(string(asig.Metodo))
	if signo < 0 {
		if etiqueta != EtiquetaEfectivo {
			return
		}
		l.sumar(Clave{etiqueta, asig.Moneda}, asig.Monto.Neg())
		return
	}
	l.sumar(Clave{etiqueta, asig.Moneda}, asig.Monto)
}

// IngresarMovimiento buckets a manual entrada/salida as Efectivo.
func (l *Libro) IngresarMovimiento(mov Movimiento) {
	monto := mov.Monto
	if mov.Tipo == Salida {
		monto = monto.Neg()
	}
	l.sumar(Clave{EtiquetaEfectivo, mov.Moneda}, monto)
}

// prioridad is the fixed display order of the arqueo report; anything not
// listed sorts alphabetically after it.
var prioridad = map[Clave]int{
	{EtiquetaEfectivo, money.Bs}:  0,
	{EtiquetaEfectivo, money.USD}: 1,
	{EtiquetaPagoMovil, money.Bs}: 2,
	{EtiquetaTarjeta, money.Bs}:   3,
	{EtiquetaVale, money.Bs}:      4,
}

// EfectivoEsperado returns every bucket in the fixed display order.
func (l *Libro) EfectivoEsperado() []Cubeta {
	cubetas := make([]Cubeta, 0, len(l.montos))
	for k, m := range l.montos {
		cubetas = append(cubetas, Cubeta{Etiqueta: k.Etiqueta, Moneda: k.Moneda, Esperado: m})
	}
	sort.SliceStable(cubetas, func(i, j int) bool {
		ki := Clave{cubetas[i].Etiqueta, cubetas[i].Moneda}
		kj := Clave{cubetas[j].Etiqueta, cubetas[j].Moneda}
		pi, oki := prioridad[ki]
		pj, okj := prioridad[kj]
		switch {
		case oki && okj:
			return pi < pj
		case oki:
			return true
		case okj:
			return false
		case cubetas[i].Etiqueta != cubetas[j].Etiqueta:
			return cubetas[i].Etiqueta < cubetas[j].Etiqueta
		default:
			return cubetas[i].Moneda < cubetas[j].Moneda
		}
	})
	return cubetas
}

// Cuadrar compares the expected buckets against the physical count. Buckets
// counted but never ingested are compared against an expected of zero.
func (l *Libro) Cuadrar(conteo map[Clave]decimal.Decimal) Informe {
	informe := Informe{Cuadra: true}

	for _, c := range l.EfectivoEsperado() {
		k := Clave{c.Etiqueta, c.Moneda}
		contado := conteo[k]
		delta := contado.Sub(c.Esperado)
		if delta.Abs().GreaterThan(money.Epsilon) {
			informe.Cuadra = false
		}
		informe.Diferencias = append(informe.Diferencias, Diferencia{
			Cubeta:   k,
			Esperado: c.Esperado,
			Contado:  contado,
			Delta:    delta,
		})
	}

	// Conteos sobre cubetas que el libro nunca vio.
	for k, contado := range conteo {
		if _, visto := l.montos[k]; visto {
			continue
		}
		if contado.Abs().GreaterThan(money.Epsilon) {
			informe.Cuadra = false
		}
		informe.Diferencias = append(informe.Diferencias, Diferencia{
			Cubeta:   k,
			Esperado: decimal.Zero,
			Contado:  contado,
			Delta:    contado,
		})
	}

	return informe
}
