package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

// In-memory repository fakes. DB() returns nil so runTx calls fn(nil)
// directly and every *Tx method ignores its tx argument.

// ── CajaRepository ────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
	arqueos     []model.ArqueoDetalle
	secuencia   int
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSesionAbiertaPorHost(_ context.Context, host string) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.Host == host && (s.Estado == "abierta" || s.Estado == "cerrando") {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) UpdateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) NextSecuencia(_ context.Context) (int, error) {
	r.secuencia++
	return r.secuencia, nil
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	return r.CreateMovimientoTx(nil, m)
}

func (r *fakeCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) CreateArqueoDetalleTx(_ *gorm.DB, d *model.ArqueoDetalle) error {
	r.arqueos = append(r.arqueos, *d)
	return nil
}

// ── VentaRepository ───────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	ticket int
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

func (r *fakeVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (r *fakeVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errors.New("not found")
	}
	v.Estado = estado
	return nil
}

func (r *fakeVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticket++
	return r.ticket, nil
}

func (r *fakeVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// ── ProductoRepository ────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	historial []model.HistorialPrecio
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakeProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) ListPorCategoria(_ context.Context, categoriaID *uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if categoriaID != nil && p.CategoriaID != *categoriaID {
			continue
		}
		if !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock = p.Stock.Add(delta)
	return nil
}

func (r *fakeProductoRepo) UpdatePrecioTx(_ *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.PrecioUSD = precio
	return nil
}

func (r *fakeProductoRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.CostoUSD = costo
	return nil
}

func (r *fakeProductoRepo) CreateHistorialTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	r.historial = append(r.historial, *h)
	return nil
}

// ── ClienteRepository ─────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeClienteRepo) FindByCedula(_ context.Context, cedula string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Cedula == cedula {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeClienteRepo) AjustarDeudaTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.clientes[id]
	if !ok {
		return errors.New("not found")
	}
	c.DeudaActualBs = c.DeudaActualBs.Add(delta)
	return nil
}

// ── DeudaRepository ───────────────────────────────────────────────────────────

type fakeDeudaRepo struct {
	deudas map[uuid.UUID]*model.Deuda
	abonos []model.AbonoDeuda
}

func newFakeDeudaRepo() *fakeDeudaRepo {
	return &fakeDeudaRepo{deudas: make(map[uuid.UUID]*model.Deuda)}
}

func (r *fakeDeudaRepo) DB() *gorm.DB { return nil }

func (r *fakeDeudaRepo) CreateTx(_ *gorm.DB, d *model.Deuda) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.deudas[d.ID] = d
	return nil
}

func (r *fakeDeudaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Deuda, error) {
	d, ok := r.deudas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (r *fakeDeudaRepo) FindByVentaIDTx(_ *gorm.DB, ventaID uuid.UUID) (*model.Deuda, error) {
	for _, d := range r.deudas {
		if d.VentaID != nil && *d.VentaID == ventaID {
			return d, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeDeudaRepo) UpdateTx(_ *gorm.DB, d *model.Deuda) error {
	r.deudas[d.ID] = d
	return nil
}

func (r *fakeDeudaRepo) CreateAbonoTx(_ *gorm.DB, a *model.AbonoDeuda) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.abonos = append(r.abonos, *a)
	return nil
}

func (r *fakeDeudaRepo) List(_ context.Context, filter dto.DeudaFilter) ([]model.Deuda, int64, error) {
	var out []model.Deuda
	for _, d := range r.deudas {
		if filter.Tipo != "" && filter.Tipo != "all" && d.Tipo != filter.Tipo {
			continue
		}
		if filter.Estado != "" && filter.Estado != "all" && d.Estado != filter.Estado {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

// ── CompraRepository ──────────────────────────────────────────────────────────

type fakeCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
	orden   int
}

func newFakeCompraRepo() *fakeCompraRepo {
	return &fakeCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *fakeCompraRepo) DB() *gorm.DB { return nil }

func (r *fakeCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.compras[c.ID] = c
	return nil
}

func (r *fakeCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fakeCompraRepo) NextOrdenNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.orden++
	return r.orden, nil
}

// ── TasaRepository ────────────────────────────────────────────────────────────

type fakeTasaRepo struct {
	tasas []model.TasaCambio
}

func (r *fakeTasaRepo) Actual(_ context.Context) (*model.TasaCambio, error) {
	if len(r.tasas) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &r.tasas[len(r.tasas)-1], nil
}

func (r *fakeTasaRepo) Create(_ context.Context, t *model.TasaCambio) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tasas = append(r.tasas, *t)
	return nil
}

func (r *fakeTasaRepo) List(_ context.Context, limit int) ([]model.TasaCambio, error) {
	if len(r.tasas) < limit {
		limit = len(r.tasas)
	}
	return r.tasas[len(r.tasas)-limit:], nil
}

// ── UsuarioRepository ─────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}
