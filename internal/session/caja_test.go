package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/reconcile"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var tasa40 = decimal.NewFromInt(40)

func TestAbrirUnaSolaCajaPorHost(t *testing.T) {
	m := NewMaquina()

	c, err := m.Abrir("caja-01", d("100"), d("10"), tasa40)
	require.NoError(t, err)
	assert.Equal(t, Abierta, c.Estado())
	assert.Equal(t, 1, c.Secuencia)

	_, err = m.Abrir("caja-01", d("0"), d("0"), tasa40)
	assert.ErrorIs(t, err, ErrCajaYaAbierta)

	// otro host es independiente
	c2, err := m.Abrir("caja-02", d("0"), d("0"), tasa40)
	require.NoError(t, err)
	assert.Equal(t, 2, c2.Secuencia)
}

func TestAbrirValidaEntradas(t *testing.T) {
	m := NewMaquina()

	_, err := m.Abrir("caja-01", d("100"), d("10"), decimal.Zero)
	assert.ErrorIs(t, err, money.ErrTasaInvalida)

	_, err = m.Abrir("caja-01", d("-1"), d("0"), tasa40)
	assert.ErrorIs(t, err, money.ErrMontoInvalido)
}

func TestCicloCompletoDeCierre(t *testing.T) {
	m := NewMaquina()
	c, err := m.Abrir("caja-01", d("100"), decimal.Zero, tasa40)
	require.NoError(t, err)

	require.NoError(t, c.RegistrarPago(payment.Asignacion{
		Metodo: payment.Efectivo, Moneda: money.Bs, Monto: d("500"),
	}, +1))
	require.NoError(t, c.RegistrarMovimiento(reconcile.Movimiento{
		Tipo: reconcile.Salida, Moneda: money.Bs, Monto: d("50"), Concepto: "cambio para la otra caja",
	}))

	esperado, err := c.IniciarCierre()
	require.NoError(t, err)
	require.Len(t, esperado, 1)
	assert.Equal(t, "550", esperado[0].Esperado.String())
	assert.Equal(t, Cerrando, c.Estado())

	// la caja en Cerrando ya no acepta eventos
	err = c.RegistrarPago(payment.Asignacion{Metodo: payment.Efectivo, Moneda: money.Bs, Monto: d("1")}, +1)
	assert.ErrorIs(t, err, ErrSinCajaAbierta)

	informe, err := m.ConfirmarCierre("caja-01", map[reconcile.Clave]decimal.Decimal{
		{Etiqueta: reconcile.EtiquetaEfectivo, Moneda: money.Bs}: d("550"),
	})
	require.NoError(t, err)
	assert.True(t, informe.Cuadra)
	assert.Equal(t, Cerrada, c.Estado())
	require.NotNil(t, c.CerradaEn)

	// el host queda libre para una nueva sesión
	_, err = m.Abrir("caja-01", d("0"), d("0"), tasa40)
	assert.NoError(t, err)
}

func TestArqueoQueNoCuadraReabreLaCaja(t *testing.T) {
	m := NewMaquina()
	c, err := m.Abrir("caja-01", d("100"), decimal.Zero, tasa40)
	require.NoError(t, err)

	require.NoError(t, c.RegistrarPago(payment.Asignacion{
		Metodo: payment.Efectivo, Moneda: money.Bs, Monto: d("350"),
	}, +1))

	_, err = c.IniciarCierre()
	require.NoError(t, err)

	informe, err := m.ConfirmarCierre("caja-01", map[reconcile.Clave]decimal.Decimal{
		{Etiqueta: reconcile.EtiquetaEfectivo, Moneda: money.Bs}: d("440"),
	})
	assert.ErrorIs(t, err, ErrArqueoNoCuadra)
	assert.False(t, informe.Cuadra)
	require.Len(t, informe.Diferencias, 1)
	assert.Equal(t, "-10", informe.Diferencias[0].Delta.String())

	// vuelve a Abierta sin persistir nada
	assert.Equal(t, Abierta, c.Estado())
	assert.Nil(t, c.CerradaEn)

	// el operador recuenta y cierra bien
	_, err = c.IniciarCierre()
	require.NoError(t, err)
	_, err = m.ConfirmarCierre("caja-01", map[reconcile.Clave]decimal.Decimal{
		{Etiqueta: reconcile.EtiquetaEfectivo, Moneda: money.Bs}: d("450"),
	})
	require.NoError(t, err)
}

func TestEventosSinCajaAbierta(t *testing.T) {
	m := NewMaquina()
	_, err := m.Activa("caja-09")
	assert.ErrorIs(t, err, ErrSinCajaAbierta)

	c := &Caja{estado: Cerrada}
	err = c.RegistrarMovimiento(reconcile.Movimiento{Tipo: reconcile.Entrada, Moneda: money.Bs, Monto: d("1")})
	assert.ErrorIs(t, err, ErrSinCajaAbierta)

	_, err = c.IniciarCierre()
	assert.ErrorIs(t, err, ErrSinCajaAbierta)
}
