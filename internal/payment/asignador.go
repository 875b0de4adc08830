package payment

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
)

var (
	ErrAsignacionInvalida    = errors.New("asignación inválida: método o monto fuera de rango")
	ErrPagoIncompleto        = errors.New("el pago no cubre el total del documento")
	ErrClienteRequerido      = errors.New("una venta a crédito requiere un cliente")
	ErrLimiteCreditoExcedido = errors.New("el cliente excede su límite de crédito")
	ErrEstadoPago            = errors.New("operación no permitida en el estado actual del pago")
)

// Estado is the allocator lifecycle: allocations can be reworked while
// Recolectando; Validar moves to Validado when the restante is covered;
// Confirmar freezes the outcome.
type Estado int

const (
	Recolectando Estado = iota
	Validado
	Confirmado
)

// Asignacion is one (método, moneda, monto) split of a payment.
type Asignacion struct {
	Metodo Metodo
	Moneda money.Moneda
	Monto  decimal.Decimal
	Ref    *RefBancaria
}

// Cliente is the credit-relevant snapshot of a customer: what they owe hoy
// (in Bs) and their limit, fixed in USD so it survives devaluation.
type Cliente struct {
	ID               uuid.UUID
	DeudaActualBs    decimal.Decimal
	LimiteCreditoUSD decimal.Decimal
}

// ConfigIGTF is the snapshot of the foreign-currency surcharge settings.
type ConfigIGTF struct {
	Habilitado bool
	Tasa       decimal.Decimal // fraction, e.g. 0.03
}

// Resumen are the allocator's derived figures. Both sides are always
// recomputed from the raw allocations, never from each other, so no
// rounding compounds between currencies.
type Resumen struct {
	RecibidoBs  decimal.Decimal
	RecibidoUSD decimal.Decimal
	IGTFBs      decimal.Decimal
	IGTFUSD     decimal.Decimal
	DebidoBs    decimal.Decimal
	DebidoUSD   decimal.Decimal
	VueltoBs    decimal.Decimal
	VueltoUSD   decimal.Decimal
	RestanteBs  decimal.Decimal
	RestanteUSD decimal.Decimal
}

// Resultado is the immutable outcome emitted by Confirmar for persistence
// and ledger ingestion.
type Resultado struct {
	Asignaciones []Asignacion
	Resumen      Resumen
}

// Asignador splits one document payment across methods and currencies.
// It is owned by a single workflow; no internal locking.
type Asignador struct {
	totalBs  decimal.Decimal
	totalUSD decimal.Decimal
	tasa     decimal.Decimal
	igtf     ConfigIGTF
	// monedaLiquidacion decides which currency's restante gates validation.
	monedaLiquidacion money.Moneda
	precision         money.Precisiones

	montos  map[clave]decimal.Decimal
	refs    map[clave]*RefBancaria
	orden   []clave
	cliente *Cliente
	estado  Estado
}

// NewAsignador builds an allocator for a document whose totals ya vienen
// calculados en ambas monedas. tasa must match the document's snapshot.
func NewAsignador(totalBs, totalUSD, tasa decimal.Decimal, igtf ConfigIGTF, liquidacion money.Moneda, p money.Precisiones) (*Asignador, error) {
	if err := money.ValidarTasa(tasa); err != nil {
		return nil, err
	}
	if totalBs.IsNegative() || totalUSD.IsNegative() {
		return nil, money.ErrMontoInvalido
	}
	return &Asignador{
		totalBs:           totalBs,
		totalUSD:          totalUSD,
		tasa:              tasa,
		igtf:              igtf,
		monedaLiquidacion: liquidacion,
		precision:         p,
		montos:            make(map[clave]decimal.Decimal),
		refs:              make(map[clave]*RefBancaria),
	}, nil
}

// ConCliente attaches the customer snapshot required for Vale allocations.
func (a *Asignador) ConCliente(c *Cliente) *Asignador {
	a.cliente = c
	return a
}

// Agregar accumulates an allocation into the (método, moneda) multiset.
// Allowed while Recolectando or Validado (adding invalidates), never after
// Confirmar.
func (a *Asignador) Agregar(m Metodo, moneda money.Moneda, monto decimal.Decimal, ref *RefBancaria) error {
	if a.estado == Confirmado {
		return ErrEstadoPago
	}
	if !m.EsValido() || !monto.IsPositive() {
		return ErrAsignacionInvalida
	}
	if moneda != money.Bs && moneda != money.USD {
		return ErrAsignacionInvalida
	}
	k := clave{Metodo: m, Moneda: moneda}
	if _, visto := a.montos[k]; !visto {
		a.orden = append(a.orden, k)
	}
	a.montos[k] = a.montos[k].Add(monto)
	if ref != nil {
		a.refs[k] = ref
	}
	a.estado = Recolectando
	return nil
}

// Quitar removes the accumulated amount for a (método, moneda) pair, for
// when the operator reworks the split.
func (a *Asignador) Quitar(m Metodo, moneda money.Moneda) error {
	if a.estado == Confirmado {
		return ErrEstadoPago
	}
	k := clave{Metodo: m, Moneda: moneda}
	delete(a.montos, k)
	delete(a.refs, k)
	for i, o := range a.orden {
		if o == k {
			a.orden = append(a.orden[:i], a.orden[i+1:]...)
			break
		}
	}
	a.estado = Recolectando
	return nil
}

func (a *Asignador) sumaPorMoneda(moneda money.Moneda) decimal.Decimal {
	s := decimal.Zero
	for k, m := range a.montos {
		if k.Moneda == moneda {
			s = s.Add(m)
		}
	}
	return s
}

// Totales recomputes every derived figure from the raw allocations.
// IGTF is charged only over the USD portion and is added to the debido,
// never subtracted from the recibido.
func (a *Asignador) Totales() Resumen {
	sumBs := a.sumaPorMoneda(money.Bs)
	sumUSD := a.sumaPorMoneda(money.USD)

	recibidoBs := sumBs.Add(sumUSD.Mul(a.tasa))
	recibidoUSD := sumUSD.Add(sumBs.Div(a.tasa))

	igtfUSD := decimal.Zero
	if a.igtf.Habilitado && a.igtf.Tasa.IsPositive() {
		igtfUSD = sumUSD.Mul(a.igtf.Tasa)
	}
	igtfBs := igtfUSD.Mul(a.tasa)

	debidoBs := a.totalBs.Add(igtfBs)
	debidoUSD := a.totalUSD.Add(igtfUSD)

	p := a.precision
	return Resumen{
		RecibidoBs:  p.Redondear(recibidoBs, money.RolTotal),
		RecibidoUSD: p.Redondear(recibidoUSD, money.RolTotal),
		IGTFBs:      p.Redondear(igtfBs, money.RolTotal),
		IGTFUSD:     p.Redondear(igtfUSD, money.RolTotal),
		DebidoBs:    p.Redondear(debidoBs, money.RolTotal),
		DebidoUSD:   p.Redondear(debidoUSD, money.RolTotal),
		VueltoBs:    p.Redondear(clampCero(recibidoBs.Sub(debidoBs)), money.RolTotal),
		VueltoUSD:   p.Redondear(clampCero(recibidoUSD.Sub(debidoUSD)), money.RolTotal),
		RestanteBs:  p.Redondear(clampCero(debidoBs.Sub(recibidoBs)), money.RolTotal),
		RestanteUSD: p.Redondear(clampCero(debidoUSD.Sub(recibidoUSD)), money.RolTotal),
	}
}

// Validar checks completeness in the settlement currency and the credit
// limit, and moves the allocator to Validado.
func (a *Asignador) Validar() error {
	if a.estado == Confirmado {
		return ErrEstadoPago
	}

	r := a.Totales()
	restante := r.RestanteBs
	if a.monedaLiquidacion == money.USD {
		restante = r.RestanteUSD
	}
	if restante.GreaterThan(money.Epsilon) {
		return ErrPagoIncompleto
	}

	if err := a.validarCredito(); err != nil {
		return err
	}

	a.estado = Validado
	return nil
}

// validarCredito enforces deudaActual + porciónCrédito <= límite (el límite
// se fija en USD y se compara en Bs a la tasa del documento).
func (a *Asignador) validarCredito() error {
	creditoBs := decimal.Zero
	for k, m := range a.montos {
		if k.Metodo != Vale {
			continue
		}
		if k.Moneda == money.Bs {
			creditoBs = creditoBs.Add(m)
		} else {
			creditoBs = creditoBs.Add(m.Mul(a.tasa))
		}
	}
	if creditoBs.IsZero() {
		return nil
	}
	if a.cliente == nil {
		return ErrClienteRequerido
	}
	limiteBs := a.cliente.LimiteCreditoUSD.Mul(a.tasa)
	if a.cliente.DeudaActualBs.Add(creditoBs).GreaterThan(limiteBs.Add(money.Epsilon)) {
		return ErrLimiteCreditoExcedido
	}
	return nil
}

// Confirmar freezes the payment and emits the immutable allocation list in
// insertion order plus the derived summary. Requires a prior Validar.
func (a *Asignador) Confirmar() (*Resultado, error) {
	if a.estado == Confirmado {
		return nil, ErrEstadoPago
	}
	if a.estado != Validado {
		if err := a.Validar(); err != nil {
			return nil, err
		}
	}

	asigs := make([]Asignacion, 0, len(a.orden))
	for _, k := range a.orden {
		asigs = append(asigs, Asignacion{
			Metodo: k.Metodo,
			Moneda: k.Moneda,
			Monto:  a.montos[k],
			Ref:    a.refs[k],
		})
	}

	a.estado = Confirmado
	return &Resultado{Asignaciones: asigs, Resumen: a.Totales()}, nil
}

// EstadoActual expone el estado para los servicios que orquestan el flujo.
func (a *Asignador) EstadoActual() Estado { return a.estado }

func clampCero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
