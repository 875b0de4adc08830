package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

// testEnv wires every service over the in-memory fakes. Redis and the worker
// dispatcher are nil: the rate cache and async jobs are both nil-guarded.
type testEnv struct {
	cfg *config.Config

	cajaRepo     *fakeCajaRepo
	ventaRepo    *fakeVentaRepo
	productoRepo *fakeProductoRepo
	clienteRepo  *fakeClienteRepo
	deudaRepo    *fakeDeudaRepo
	compraRepo   *fakeCompraRepo
	tasaRepo     *fakeTasaRepo
	usuarioRepo  *fakeUsuarioRepo

	tasa      TasaService
	caja      CajaService
	ventas    VentaService
	compras   CompraService
	deudas    DeudaService
	productos ProductoService
	auth      AuthService
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "secret-de-prueba",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
		IGTFHabilitado:     true,
		IGTFTasa:           "0.03",
		TasaPorDefecto:     "40.00",
		NombreTienda:       "MangoPOS Test",
	}

	env := &testEnv{
		cfg:          cfg,
		cajaRepo:     newFakeCajaRepo(),
		ventaRepo:    newFakeVentaRepo(),
		productoRepo: newFakeProductoRepo(),
		clienteRepo:  newFakeClienteRepo(),
		deudaRepo:    newFakeDeudaRepo(),
		compraRepo:   newFakeCompraRepo(),
		tasaRepo:     &fakeTasaRepo{},
		usuarioRepo:  newFakeUsuarioRepo(),
	}

	env.tasa = NewTasaService(env.tasaRepo, nil, cfg)
	env.caja = NewCajaService(env.cajaRepo, env.tasa, nil, cfg)
	env.ventas = NewVentaService(env.ventaRepo, env.caja, env.cajaRepo, env.productoRepo, env.clienteRepo, env.deudaRepo, nil, cfg)
	env.compras = NewCompraService(env.compraRepo, env.caja, env.cajaRepo, env.productoRepo, env.deudaRepo, cfg)
	env.deudas = NewDeudaService(env.deudaRepo, env.caja, env.cajaRepo, env.clienteRepo, cfg)
	env.productos = NewProductoService(env.productoRepo, env.tasa, cfg)
	env.auth = NewAuthService(env.usuarioRepo, cfg)
	return env
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

// abrirSesion opens a register at the default rate (40 Bs/USD, seeded from
// TasaPorDefecto) with 500 Bs / 20 USD in the drawer.
func abrirSesion(t *testing.T, env *testEnv) *model.SesionCaja {
	t.Helper()
	_, err := env.caja.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		Host:            "caja-01",
		SaldoInicialBs:  dec("500.00"),
		SaldoInicialUSD: dec("20.00"),
	})
	require.NoError(t, err)
	sesion, err := env.cajaRepo.FindSesionAbiertaPorHost(context.Background(), "caja-01")
	require.NoError(t, err)
	return sesion
}

// sembrarProducto adds a 10 USD product (IVA 16%, no regulado) with stock 10.
func sembrarProducto(t *testing.T, env *testEnv) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Codigo:      "HAR-001",
		Nombre:      "Harina de maíz 1kg",
		CategoriaID: uuid.New(),
		PrecioUSD:   dec("10.00"),
		CostoUSD:    dec("7.00"),
		Stock:       dec("10"),
		Unidad:      "unidad",
		Activo:      true,
		Categoria: &model.Categoria{
			Nombre:      "Víveres",
			AlicuotaIVA: dec("0.16"),
		},
	}
	require.NoError(t, env.productoRepo.Create(context.Background(), p))
	return p
}
