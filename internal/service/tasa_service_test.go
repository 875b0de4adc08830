package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
)

func TestTasaActualSiembraDesdeConfiguracion(t *testing.T) {
	env := newTestEnv()

	tasa, err := env.tasa.Actual(context.Background())
	require.NoError(t, err)
	assert.True(t, tasa.Equal(dec("40.00")), "tasa: %s", tasa)

	// La siembra escribe una fila con fuente "default".
	require.Len(t, env.tasaRepo.tasas, 1)
	assert.Equal(t, "default", env.tasaRepo.tasas[0].Fuente)

	// Una segunda lectura no vuelve a sembrar.
	_, err = env.tasa.Actual(context.Background())
	require.NoError(t, err)
	assert.Len(t, env.tasaRepo.tasas, 1)
}

func TestActualizarTasa(t *testing.T) {
	env := newTestEnv()

	resp, err := env.tasa.Actualizar(context.Background(), uuid.New(), dto.ActualizarTasaRequest{
		Valor:  dec("42.50"),
		Fuente: "bcv",
	})
	require.NoError(t, err)
	assert.True(t, resp.Valor.Equal(dec("42.50")))
	assert.Equal(t, "bcv", resp.Fuente)

	tasa, err := env.tasa.Actual(context.Background())
	require.NoError(t, err)
	assert.True(t, tasa.Equal(dec("42.50")), "tasa: %s", tasa)
}

func TestActualizarTasaInvalida(t *testing.T) {
	env := newTestEnv()

	_, err := env.tasa.Actualizar(context.Background(), uuid.New(), dto.ActualizarTasaRequest{
		Valor: dec("0"),
	})
	require.ErrorIs(t, err, money.ErrTasaInvalida)
}

func TestActualizarTasaSinFuenteEsManual(t *testing.T) {
	env := newTestEnv()

	resp, err := env.tasa.Actualizar(context.Background(), uuid.New(), dto.ActualizarTasaRequest{
		Valor: dec("41.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "manual", resp.Fuente)
}

func TestHistorialDeTasas(t *testing.T) {
	env := newTestEnv()
	uid := uuid.New()

	for _, v := range []string{"40.00", "41.00", "42.00"} {
		_, err := env.tasa.Actualizar(context.Background(), uid, dto.ActualizarTasaRequest{Valor: dec(v)})
		require.NoError(t, err)
	}

	historial, err := env.tasa.Historial(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, historial, 3)
}
