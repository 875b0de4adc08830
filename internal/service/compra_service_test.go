package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
)

func TestRegistrarCompraPagoParcialCreaCxp(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	// 5 unidades a costo 8 USD + 16% IVA: 46.40 USD / 1856 Bs a tasa 40.
	resp, err := env.compras.RegistrarCompra(context.Background(), uuid.New(), dto.RegistrarCompraRequest{
		SesionCajaID: sesion.ID.String(),
		Proveedor:    "Distribuidora El Sol",
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("5"), CostoUSD: dec("8.00")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("1000.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.NumeroOrden)
	assert.True(t, resp.Totales.TotalUSD.Equal(dec("46.40")), "total USD: %s", resp.Totales.TotalUSD)
	assert.True(t, resp.Totales.TotalBs.Equal(dec("1856.00")), "total Bs: %s", resp.Totales.TotalBs)

	// Stock entra y el costo de catálogo se actualiza al último costo.
	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.Stock.Equal(dec("15")), "stock: %s", p.Stock)
	assert.True(t, p.CostoUSD.Equal(dec("8.00")), "costo: %s", p.CostoUSD)

	// El pago sale de caja como movimiento de compra.
	movs, _ := env.cajaRepo.ListMovimientos(context.Background(), sesion.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, "compra", movs[0].Tipo)
	assert.True(t, movs[0].Monto.Equal(dec("1000.00")))

	// Lo no pagado nace como cuenta por pagar al proveedor.
	require.NotNil(t, resp.DeudaID)
	require.Len(t, env.deudaRepo.deudas, 1)
	for _, d := range env.deudaRepo.deudas {
		assert.Equal(t, "cxp", d.Tipo)
		assert.Equal(t, "pendiente", d.Estado)
		require.NotNil(t, d.Proveedor)
		assert.Equal(t, "Distribuidora El Sol", *d.Proveedor)
		assert.True(t, d.SaldoBs.Equal(dec("856.00")), "saldo: %s", d.SaldoBs)
	}
}

func TestRegistrarCompraPagoCompletoSinDeuda(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	resp, err := env.compras.RegistrarCompra(context.Background(), uuid.New(), dto.RegistrarCompraRequest{
		SesionCajaID: sesion.ID.String(),
		Proveedor:    "Distribuidora El Sol",
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("5"), CostoUSD: dec("8.00")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "transferencia", Moneda: "Bs", Monto: dec("1856.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.NoError(t, err)

	assert.Nil(t, resp.DeudaID)
	assert.Empty(t, env.deudaRepo.deudas)
	// Sin IGTF en compras: el recargo aplica a divisas recibidas, no salientes.
	require.NotNil(t, resp.Resumen)
	assert.True(t, resp.Resumen.IGTFUSD.IsZero())
	assert.True(t, resp.Resumen.RestanteBs.IsZero())
}

func TestRegistrarCompraSinSesionAbierta(t *testing.T) {
	env := newTestEnv()
	producto := sembrarProducto(t, env)

	_, err := env.compras.RegistrarCompra(context.Background(), uuid.New(), dto.RegistrarCompraRequest{
		SesionCajaID: uuid.New().String(),
		Proveedor:    "Distribuidora El Sol",
		Items: []dto.ItemCompraRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("1"), CostoUSD: dec("8.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.Error(t, err)
}
