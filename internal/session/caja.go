// Package session governs the caja lifecycle: Cerrada → Abierta → Cerrando →
// Cerrada, with the close gated on the arqueo matching the ledger.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/reconcile"
)

var (
	ErrCajaYaAbierta  = errors.New("ya existe una caja abierta en este punto de venta")
	ErrSinCajaAbierta = errors.New("no hay una caja abierta")
	ErrArqueoNoCuadra = errors.New("el arqueo no cuadra con el efectivo esperado")
)

// Estado is the session lifecycle state.
type Estado string

const (
	Cerrada  Estado = "cerrada"
	Abierta  Estado = "abierta"
	Cerrando Estado = "cerrando"
)

// Caja is one register session. It owns its reconciliation ledger; every
// payment/movement of the session flows through it by reference. The
// exchange-rate snapshot is taken at open time and never re-read.
type Caja struct {
	ID              uuid.UUID
	Host            string
	Secuencia       int
	AbiertaEn       time.Time
	CerradaEn       *time.Time
	SaldoInicialBs  decimal.Decimal
	SaldoInicialUSD decimal.Decimal
	Tasa            decimal.Decimal

	estado           Estado
	libro            *reconcile.Libro
	esperadoAlCierre []reconcile.Cubeta
}

// Estado returns the current lifecycle state.
func (c *Caja) Estado() Estado { return c.estado }

// Libro exposes the session ledger for report building.
func (c *Caja) Libro() *reconcile.Libro { return c.libro }

// RegistrarPago forwards a committed allocation to the ledger. signo: +1
// ventas/cobros, -1 compras/pagos.
func (c *Caja) RegistrarPago(asig payment.Asignacion, signo int) error {
	if c.estado != Abierta {
		return ErrSinCajaAbierta
	}
	c.libro.IngresarPago(asig, signo)
	return nil
}

// RegistrarMovimiento forwards a manual entrada/salida to the ledger.
func (c *Caja) RegistrarMovimiento(mov reconcile.Movimiento) error {
	if c.estado != Abierta {
		return ErrSinCajaAbierta
	}
	c.libro.IngresarMovimiento(mov)
	return nil
}

// IniciarCierre moves the session to Cerrando and snapshots the expected
// cash so the blind count compares against a frozen picture.
func (c *Caja) IniciarCierre() ([]reconcile.Cubeta, error) {
	if c.estado != Abierta {
		return nil, ErrSinCajaAbierta
	}
	c.estado = Cerrando
	c.esperadoAlCierre = c.libro.EfectivoEsperado()
	return c.esperadoAlCierre, nil
}

// ConfirmarCierre runs the arqueo. On mismatch the session returns to
// Abierta with the diffs surfaced and nothing persisted; on match it
// transitions to Cerrada and the record freezes.
func (c *Caja) ConfirmarCierre(conteo map[reconcile.Clave]decimal.Decimal) (reconcile.Informe, error) {
	if c.estado != Cerrando {
		return reconcile.Informe{}, ErrSinCajaAbierta
	}

	informe := c.libro.Cuadrar(conteo)
	if !informe.Cuadra {
		c.estado = Abierta
		c.esperadoAlCierre = nil
		return informe, ErrArqueoNoCuadra
	}

	ahora := time.Now()
	c.CerradaEn = &ahora
	c.estado = Cerrada
	return informe, nil
}

// Maquina tracks at most one open session per host. Concurrent hosts are
// independent; a single host's session is driven by one workflow at a time.
type Maquina struct {
	abiertas  map[string]*Caja
	secuencia int
}

func NewMaquina() *Maquina {
	return &Maquina{abiertas: make(map[string]*Caja)}
}

// Abrir creates the session for a host, failing when one is already open.
func (m *Maquina) Abrir(host string, saldoBs, saldoUSD, tasa decimal.Decimal) (*Caja, error) {
	if err := money.ValidarTasa(tasa); err != nil {
		return nil, err
	}
	if saldoBs.IsNegative() || saldoUSD.IsNegative() {
		return nil, money.ErrMontoInvalido
	}
	if c, ok := m.abiertas[host]; ok && c.estado != Cerrada {
		return nil, ErrCajaYaAbierta
	}

	m.secuencia++
	c := &Caja{
		ID:              uuid.New(),
		Host:            host,
		Secuencia:       m.secuencia,
		AbiertaEn:       time.Now(),
		SaldoInicialBs:  saldoBs,
		SaldoInicialUSD: saldoUSD,
		Tasa:            tasa,
		estado:          Abierta,
		libro:           reconcile.NewLibro(saldoBs, saldoUSD),
	}
	m.abiertas[host] = c
	return c, nil
}

// Activa returns the open session for a host.
func (m *Maquina) Activa(host string) (*Caja, error) {
	c, ok := m.abiertas[host]
	if !ok || c.estado == Cerrada {
		return nil, ErrSinCajaAbierta
	}
	return c, nil
}

// ConfirmarCierre closes the host's session through its own arqueo and, on
// success, releases the host for a new Abrir.
func (m *Maquina) ConfirmarCierre(host string, conteo map[reconcile.Clave]decimal.Decimal) (reconcile.Informe, error) {
	c, err := m.Activa(host)
	if err != nil {
		return reconcile.Informe{}, err
	}
	informe, err := c.ConfirmarCierre(conteo)
	if err != nil {
		return informe, err
	}
	delete(m.abiertas, host)
	return informe, nil
}
