package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
)

func TestCrearProductoDerivaPrecioBs(t *testing.T) {
	env := newTestEnv()

	resp, err := env.productos.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo:      "ARR-001",
		Nombre:      "Arroz blanco 1kg",
		CategoriaID: uuid.New().String(),
		PrecioUSD:   dec("2.50"),
		CostoUSD:    dec("1.80"),
		Stock:       dec("30"),
	})
	require.NoError(t, err)

	assert.Equal(t, "unidad", resp.Unidad)
	assert.True(t, resp.Activo)
	// Precio Bs derivado a la tasa por defecto (40).
	assert.True(t, resp.PrecioBs.Equal(dec("100.00")), "precio Bs: %s", resp.PrecioBs)
}

func TestActualizarProductoRegistraHistorialDePrecio(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	nuevoPrecio := dec("12.00")
	_, err := env.productos.Actualizar(context.Background(), uuid.New(), producto.ID, dto.ActualizarProductoRequest{
		PrecioUSD: &nuevoPrecio,
	})
	require.NoError(t, err)

	require.Len(t, env.productoRepo.historial, 1)
	h := env.productoRepo.historial[0]
	assert.True(t, h.PrecioAnteriorUSD.Equal(dec("10.00")))
	assert.True(t, h.PrecioNuevoUSD.Equal(dec("12.00")))
	assert.Equal(t, "actualización manual", h.Motivo)
}

func TestActualizarProductoSinCambioDePrecioNoEscribeHistorial(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	nombre := "Harina de maíz precocida 1kg"
	_, err := env.productos.Actualizar(context.Background(), uuid.New(), producto.ID, dto.ActualizarProductoRequest{
		Nombre: &nombre,
	})
	require.NoError(t, err)
	assert.Empty(t, env.productoRepo.historial)
}

func TestAjusteMasivoSubirPorcentaje(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	resp, err := env.productos.AjusteMasivo(context.Background(), uuid.New(), dto.AjusteMasivoRequest{
		Direccion: "subir",
		Ajuste:    dto.DescuentoDTO{Tipo: "porcentaje", Valor: dec("0.10")},
		Motivo:    "ajuste por inflación",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Ajustados)

	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.PrecioUSD.Equal(dec("11.00")), "precio: %s", p.PrecioUSD)

	require.Len(t, env.productoRepo.historial, 1)
	assert.Equal(t, "ajuste por inflación", env.productoRepo.historial[0].Motivo)
}

func TestAjusteMasivoBajarMontoUSD(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	resp, err := env.productos.AjusteMasivo(context.Background(), uuid.New(), dto.AjusteMasivoRequest{
		Direccion: "bajar",
		Ajuste:    dto.DescuentoDTO{Tipo: "monto_usd", Valor: dec("1.50")},
		Motivo:    "liquidación de inventario",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Ajustados)

	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.PrecioUSD.Equal(dec("8.50")), "precio: %s", p.PrecioUSD)
}

func TestAjusteMasivoFiltraPorCategoria(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	// Otra categoría: no debe tocarse.
	otraCategoria := uuid.New().String()
	resp, err := env.productos.AjusteMasivo(context.Background(), uuid.New(), dto.AjusteMasivoRequest{
		CategoriaID: &otraCategoria,
		Direccion:   "subir",
		Ajuste:      dto.DescuentoDTO{Tipo: "porcentaje", Valor: dec("0.10")},
		Motivo:      "ajuste selectivo",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Ajustados)

	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.PrecioUSD.Equal(dec("10.00")))
}

func TestDesactivarProducto(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	require.NoError(t, env.productos.Desactivar(context.Background(), producto.ID))
	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.False(t, p.Activo)
}
