// Package payment implements the split-payment allocator: N asignaciones
// (método, moneda, monto) contra un documento con totales en ambas monedas,
// con vuelto, restante, recargo IGTF y guardia de crédito.
package payment

import "github.com/owaldom/mangopos-app-web-sub000/internal/money"

// Metodo is the closed set of payment methods the register accepts.
// "vale" is the store-credit method that creates or settles a deuda.
type Metodo string

const (
	Efectivo      Metodo = "efectivo"
	Tarjeta       Metodo = "tarjeta"
	Transferencia Metodo = "transferencia"
	PagoMovil     Metodo = "pago_movil"
	Vale          Metodo = "vale"
)

// EsValido reports whether m is one of the accepted methods.
func (m Metodo) EsValido() bool {
	switch m {
	case Efectivo, Tarjeta, Transferencia, PagoMovil, Vale:
		return true
	}
	return false
}

// RefBancaria is the optional bank metadata a transfer/card/pago-móvil
// allocation carries.
type RefBancaria struct {
	Banco      string
	Referencia string
	Cedula     string
}

// clave agrupa asignaciones del mismo método y moneda.
type clave struct {
	Metodo Metodo
	Moneda money.Moneda
}
