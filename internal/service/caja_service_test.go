package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/session"
)

func TestAbrirCajaSnapshotDeTasa(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	assert.Equal(t, "abierta", sesion.Estado)
	assert.Equal(t, 1, sesion.Secuencia)
	// La tasa por defecto queda congelada en la sesión.
	assert.True(t, sesion.TasaCambio.Equal(dec("40.00")), "tasa: %s", sesion.TasaCambio)
}

func TestAbrirCajaDuplicadaPorHost(t *testing.T) {
	env := newTestEnv()
	abrirSesion(t, env)

	_, err := env.caja.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		Host:           "caja-01",
		SaldoInicialBs: dec("100.00"),
	})
	require.ErrorIs(t, err, session.ErrCajaYaAbierta)
}

func TestRegistrarMovimientoManual(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	err := env.caja.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesion.ID.String(),
		Tipo:         "salida_manual",
		Moneda:       "Bs",
		Monto:        dec("100.00"),
		Concepto:     "pago de fletes",
	})
	require.NoError(t, err)

	reporte, err := env.caja.ObtenerReporte(context.Background(), sesion.ID)
	require.NoError(t, err)
	require.Len(t, reporte.EfectivoEsperado, 2)
	assert.Equal(t, "Efectivo", reporte.EfectivoEsperado[0].Etiqueta)
	assert.Equal(t, "Bs", reporte.EfectivoEsperado[0].Moneda)
	assert.True(t, reporte.EfectivoEsperado[0].Esperado.Equal(dec("400.00")), "esperado: %s", reporte.EfectivoEsperado[0].Esperado)
	assert.Equal(t, "USD", reporte.EfectivoEsperado[1].Moneda)
	assert.True(t, reporte.EfectivoEsperado[1].Esperado.Equal(dec("20.00")))
}

func TestRegistrarMovimientoMontoInvalido(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	err := env.caja.RegistrarMovimiento(context.Background(), dto.MovimientoManualRequest{
		SesionCajaID: sesion.ID.String(),
		Tipo:         "entrada_manual",
		Moneda:       "Bs",
		Monto:        dec("0"),
		Concepto:     "nada",
	})
	require.ErrorIs(t, err, money.ErrMontoInvalido)
}

func TestCierreNoCuadraReabreLaSesion(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	cubetas, err := env.caja.IniciarCierre(context.Background(), sesion.ID)
	require.NoError(t, err)
	require.Len(t, cubetas, 2)
	assert.Equal(t, "cerrando", sesion.Estado)

	// Faltan 150 Bs en la gaveta.
	resp, err := env.caja.ConfirmarCierre(context.Background(), dto.CierreCajaRequest{
		SesionCajaID: sesion.ID.String(),
		Conteo: []dto.ConteoDTO{
			{Etiqueta: "Efectivo", Moneda: "Bs", Monto: dec("350.00")},
			{Etiqueta: "Efectivo", Moneda: "USD", Monto: dec("20.00")},
		},
	})
	require.ErrorIs(t, err, session.ErrArqueoNoCuadra)
	require.NotNil(t, resp)
	assert.False(t, resp.Cuadra)
	assert.Equal(t, "abierta", resp.Estado)

	// Nada se persiste y la sesión vuelve a operar.
	assert.Empty(t, env.cajaRepo.arqueos)
	assert.Equal(t, "abierta", sesion.Estado)

	var delta bool
	for _, d := range resp.Diferencias {
		if d.Etiqueta == "Efectivo" && d.Moneda == "Bs" {
			assert.True(t, d.Delta.Equal(dec("-150.00")), "delta: %s", d.Delta)
			delta = true
		}
	}
	assert.True(t, delta, "falta la diferencia de Efectivo Bs")
}

func TestCierreCuadraCongelaLaSesion(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	_, err := env.caja.IniciarCierre(context.Background(), sesion.ID)
	require.NoError(t, err)

	resp, err := env.caja.ConfirmarCierre(context.Background(), dto.CierreCajaRequest{
		SesionCajaID: sesion.ID.String(),
		Conteo: []dto.ConteoDTO{
			{Etiqueta: "Efectivo", Moneda: "Bs", Monto: dec("500.00")},
			{Etiqueta: "Efectivo", Moneda: "USD", Monto: dec("20.00")},
		},
		Observaciones: strPtr("cierre sin novedades"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Cuadra)
	assert.Equal(t, "cerrada", resp.Estado)

	assert.Equal(t, "cerrada", sesion.Estado)
	require.NotNil(t, sesion.CerradaEn)
	assert.Len(t, env.cajaRepo.arqueos, 2)

	// Una sesión cerrada ya no acepta operaciones.
	_, err = env.caja.FindSesionAbierta(context.Background(), sesion.ID)
	require.ErrorIs(t, err, session.ErrSinCajaAbierta)
}

func TestConfirmarCierreSinIniciarFalla(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	_, err := env.caja.ConfirmarCierre(context.Background(), dto.CierreCajaRequest{
		SesionCajaID: sesion.ID.String(),
		Conteo: []dto.ConteoDTO{
			{Etiqueta: "Efectivo", Moneda: "Bs", Monto: dec("500.00")},
		},
	})
	require.Error(t, err)
}

func TestIniciarCierreSobreSesionCerrandoFalla(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)

	_, err := env.caja.IniciarCierre(context.Background(), sesion.ID)
	require.NoError(t, err)
	_, err = env.caja.IniciarCierre(context.Background(), sesion.ID)
	require.ErrorIs(t, err, session.ErrSinCajaAbierta)
}
