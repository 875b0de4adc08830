package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
)

func TestRegistrarVentaEfectivoBs(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	resp, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("928.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.NoError(t, err)

	// Dual-currency totals: 2 × 10 USD + 16% IVA at tasa 40.
	assert.Equal(t, 1, resp.NumeroTicket)
	assert.True(t, resp.Totales.SubtotalUSD.Equal(dec("20.00")), "subtotal USD: %s", resp.Totales.SubtotalUSD)
	assert.True(t, resp.Totales.IVAUSD.Equal(dec("3.20")), "IVA USD: %s", resp.Totales.IVAUSD)
	assert.True(t, resp.Totales.TotalUSD.Equal(dec("23.20")), "total USD: %s", resp.Totales.TotalUSD)
	assert.True(t, resp.Totales.SubtotalBs.Equal(dec("800.00")), "subtotal Bs: %s", resp.Totales.SubtotalBs)
	assert.True(t, resp.Totales.IVABs.Equal(dec("128.00")), "IVA Bs: %s", resp.Totales.IVABs)
	assert.True(t, resp.Totales.TotalBs.Equal(dec("928.00")), "total Bs: %s", resp.Totales.TotalBs)
	assert.Equal(t, "completada", resp.Estado)

	// Sin divisas recibidas no hay IGTF ni vuelto.
	assert.True(t, resp.Resumen.IGTFUSD.IsZero())
	assert.True(t, resp.Resumen.VueltoBs.IsZero())
	assert.True(t, resp.Resumen.RestanteBs.IsZero())

	// Stock baja y la caja recibe un movimiento por asignación.
	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.Stock.Equal(dec("8")), "stock: %s", p.Stock)

	movs, _ := env.cajaRepo.ListMovimientos(context.Background(), sesion.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, "venta", movs[0].Tipo)
	assert.Equal(t, "Bs", movs[0].Moneda)
	assert.True(t, movs[0].Monto.Equal(dec("928.00")))
}

func TestRegistrarVentaDivisasConIGTFYVuelto(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	resp, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "USD", Monto: dec("25.00")},
		},
		MonedaLiquidacion: "USD",
	})
	require.NoError(t, err)

	// IGTF 3% sobre los 25 USD recibidos; el vuelto sale del debido con recargo.
	assert.True(t, resp.Resumen.IGTFUSD.Equal(dec("0.75")), "IGTF USD: %s", resp.Resumen.IGTFUSD)
	assert.True(t, resp.Resumen.IGTFBs.Equal(dec("30.00")), "IGTF Bs: %s", resp.Resumen.IGTFBs)
	assert.True(t, resp.Resumen.VueltoUSD.Equal(dec("1.05")), "vuelto USD: %s", resp.Resumen.VueltoUSD)
	assert.True(t, resp.Resumen.RestanteUSD.IsZero())
}

func TestRegistrarVentaPagoIncompletoNoPersisteNada(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	_, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("500.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.ErrorIs(t, err, payment.ErrPagoIncompleto)

	assert.Empty(t, env.ventaRepo.ventas)
	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.Stock.Equal(dec("10")))
	movs, _ := env.cajaRepo.ListMovimientos(context.Background(), sesion.ID)
	assert.Empty(t, movs)
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	_, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("50")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("1000.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock insuficiente")
}

func TestRegistrarVentaValeSinClienteFalla(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	_, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "vale", Moneda: "Bs", Monto: dec("928.00")},
		},
		MonedaLiquidacion: "Bs",
	})
	require.ErrorIs(t, err, payment.ErrClienteRequerido)
}

func TestRegistrarVentaConValeCreaDeuda(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	cliente := &model.Cliente{
		Cedula:           "V-12345678",
		Nombre:           "María Pérez",
		LimiteCreditoUSD: dec("100.00"),
		Activo:           true,
	}
	require.NoError(t, env.clienteRepo.Create(context.Background(), cliente))

	clienteID := cliente.ID.String()
	_, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("400.00")},
			{Metodo: "vale", Moneda: "Bs", Monto: dec("528.00")},
		},
		MonedaLiquidacion: "Bs",
		ClienteID:         &clienteID,
	})
	require.NoError(t, err)

	// La porción vale nace como cuenta por cobrar contra el cliente.
	require.Len(t, env.deudaRepo.deudas, 1)
	var deuda *model.Deuda
	for _, d := range env.deudaRepo.deudas {
		deuda = d
	}
	assert.Equal(t, "cxc", deuda.Tipo)
	assert.Equal(t, "pendiente", deuda.Estado)
	assert.True(t, deuda.SaldoBs.Equal(dec("528.00")), "saldo: %s", deuda.SaldoBs)
	assert.True(t, deuda.TasaCambio.Equal(dec("40.00")))

	c, _ := env.clienteRepo.FindByID(context.Background(), cliente.ID)
	assert.True(t, c.DeudaActualBs.Equal(dec("528.00")), "deuda cliente: %s", c.DeudaActualBs)
}

func TestRegistrarVentaValeExcedeLimiteDeCredito(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	// Límite 10 USD = 400 Bs a tasa 40; el vale de 528 Bs lo excede.
	cliente := &model.Cliente{
		Cedula:           "V-87654321",
		Nombre:           "José Rodríguez",
		LimiteCreditoUSD: dec("10.00"),
		Activo:           true,
	}
	require.NoError(t, env.clienteRepo.Create(context.Background(), cliente))

	clienteID := cliente.ID.String()
	_, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("400.00")},
			{Metodo: "vale", Moneda: "Bs", Monto: dec("528.00")},
		},
		MonedaLiquidacion: "Bs",
		ClienteID:         &clienteID,
	})
	require.ErrorIs(t, err, payment.ErrLimiteCreditoExcedido)
	assert.Empty(t, env.ventaRepo.ventas)
}

func TestAnularVentaRestituyeTodo(t *testing.T) {
	env := newTestEnv()
	sesion := abrirSesion(t, env)
	producto := sembrarProducto(t, env)

	cliente := &model.Cliente{
		Cedula:           "V-11222333",
		Nombre:           "Ana Gómez",
		LimiteCreditoUSD: dec("100.00"),
		Activo:           true,
	}
	require.NoError(t, env.clienteRepo.Create(context.Background(), cliente))

	clienteID := cliente.ID.String()
	resp, err := env.ventas.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		SesionCajaID: sesion.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: producto.ID.String(), Cantidad: dec("2")},
		},
		Pagos: []dto.PagoDTO{
			{Metodo: "efectivo", Moneda: "Bs", Monto: dec("400.00")},
			{Metodo: "vale", Moneda: "Bs", Monto: dec("528.00")},
		},
		MonedaLiquidacion: "Bs",
		ClienteID:         &clienteID,
	})
	require.NoError(t, err)

	ventaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, env.ventas.AnularVenta(context.Background(), ventaID, "producto dañado"))

	// Stock vuelve, la venta queda anulada y el historial no se toca.
	p, _ := env.productoRepo.FindByID(context.Background(), producto.ID)
	assert.True(t, p.Stock.Equal(dec("10")), "stock: %s", p.Stock)

	venta, _ := env.ventaRepo.FindByID(context.Background(), ventaID)
	assert.Equal(t, "anulada", venta.Estado)

	// Movimientos inversos, uno por pago original.
	movs, _ := env.cajaRepo.ListMovimientos(context.Background(), sesion.ID)
	anulaciones := 0
	for _, m := range movs {
		if m.Tipo == "anulacion" {
			anulaciones++
			assert.True(t, m.Monto.IsNegative())
		}
	}
	assert.Equal(t, 2, anulaciones)

	// La deuda del vale se anula y el cliente deja de deberla.
	var deuda *model.Deuda
	for _, d := range env.deudaRepo.deudas {
		deuda = d
	}
	assert.Equal(t, "anulada", deuda.Estado)
	assert.True(t, deuda.SaldoBs.IsZero())
	c, _ := env.clienteRepo.FindByID(context.Background(), cliente.ID)
	assert.True(t, c.DeudaActualBs.IsZero(), "deuda cliente: %s", c.DeudaActualBs)

	// Una venta anulada no puede anularse otra vez.
	err = env.ventas.AnularVenta(context.Background(), ventaID, "duplicado")
	require.Error(t, err)
}
