package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/pricing"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
	"github.com/owaldom/mangopos-app-web-sub000/internal/worker"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	caja         CajaService
	cajaRepo     repository.CajaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	deudaRepo    repository.DeudaRepository
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewVentaService(
	repo repository.VentaRepository,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	deudaRepo repository.DeudaRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) VentaService {
	return &ventaService{
		repo:         repo,
		caja:         caja,
		cajaRepo:     cajaRepo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		deudaRepo:    deudaRepo,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Full ACID flow:
//  1. Validate the sesión de caja is open; snapshot its rate.
//  2. Resolve products into pricing lines and compute dual-currency totals.
//  3. Allocate the split payment (IGTF, vuelto, restante, credit guard).
//  4. BEGIN TX: nextval ticket, create venta+items+pagos, descontar stock,
//     movimientos de caja, deuda por la porción a crédito.
//  5. COMMIT; (async) dispatch the PDF ticket job.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}

	sesion, err := s.caja.FindSesionAbierta(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	tasa := sesion.TasaCambio
	prec := precisionesDesdeConfig(s.cfg)

	// Resolve products into pricing lines (pre-flight, outside TX).
	type resolvedItem struct {
		producto *model.Producto
		cantidad decimal.Decimal
		linea    pricing.Linea
		dcto     *pricing.Descuento
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	lineas := make([]pricing.Linea, 0, len(req.Items))

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		if p.Stock.LessThan(item.Cantidad) {
			return nil, fmt.Errorf("stock insuficiente de %s", p.Nombre)
		}

		dcto, err := descuentoDesdeDTO(item.Descuento)
		if err != nil {
			return nil, err
		}
		alicuota := decimal.Zero
		regulado := false
		if p.Categoria != nil {
			alicuota = p.Categoria.AlicuotaIVA
			regulado = p.Categoria.Regulada
		}
		linea := pricing.Linea{
			PrecioUnitario: p.PrecioUSD,
			Cantidad:       item.Cantidad,
			Descuento:      dcto,
			AlicuotaIVA:    alicuota,
			Regulada:       regulado,
		}
		lineas = append(lineas, linea)
		resolved = append(resolved, resolvedItem{producto: p, cantidad: item.Cantidad, linea: linea, dcto: dcto})
	}

	descuentoGlobal, err := descuentoDesdeDTO(req.DescuentoGlobal)
	if err != nil {
		return nil, err
	}

	totales, err := pricing.CalcularDocumento(pricing.Documento{
		Lineas:          lineas,
		DescuentoGlobal: descuentoGlobal,
		Tasa:            tasa,
		Precision:       prec,
	})
	if err != nil {
		return nil, err
	}

	// Payment allocation.
	asignador, err := payment.NewAsignador(
		totales.TotalBs, totales.TotalUSD, tasa,
		payment.ConfigIGTF{Habilitado: s.cfg.IGTFHabilitado, Tasa: s.cfg.TasaIGTF()},
		money.Moneda(req.MonedaLiquidacion), prec,
	)
	if err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, errors.New("cliente no encontrado")
		}
		clienteID = &cid
		asignador.ConCliente(&payment.Cliente{
			ID:               cliente.ID,
			DeudaActualBs:    cliente.DeudaActualBs,
			LimiteCreditoUSD: cliente.LimiteCreditoUSD,
		})
	}

	for _, pago := range req.Pagos {
		if err := asignador.Agregar(
			payment.Metodo(pago.Metodo), money.Moneda(pago.Moneda), pago.Monto, refDesdeDTO(pago),
		); err != nil {
			return nil, err
		}
	}

	resultado, err := asignador.Confirmar()
	if err != nil {
		return nil, err
	}
	resumen := resultado.Resumen

	// Porción a crédito (vale) en Bs a la tasa del documento.
	valeBs := decimal.Zero
	for _, a := range resultado.Asignaciones {
		if a.Metodo != payment.Vale {
			continue
		}
		if a.Moneda == money.Bs {
			valeBs = valeBs.Add(a.Monto)
		} else {
			valeBs = valeBs.Add(a.Monto.Mul(tasa))
		}
	}
	valeBs = prec.Redondear(valeBs, money.RolTotal)

	// ACID transaction.
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket: ticketNum,
			SesionCajaID: sesionID,
			UsuarioID:    usuarioID,
			ClienteID:    clienteID,
			SubtotalUSD:  totales.SubtotalUSD,
			DescuentoUSD: totales.DescuentoUSD,
			IVAUSD:       totales.IVAUSD,
			IGTFUSD:      resumen.IGTFUSD,
			TotalUSD:     totales.TotalUSD,
			SubtotalBs:   totales.SubtotalBs,
			DescuentoBs:  totales.DescuentoBs,
			IVABs:        totales.IVABs,
			IGTFBs:       resumen.IGTFBs,
			TotalBs:      totales.TotalBs,
			TasaCambio:   tasa,
			Estado:       "completada",
		}

		for i, r := range resolved {
			tl, err := pricing.CalcularLinea(r.linea, tasa)
			if err != nil {
				return err
			}
			item := model.VentaItem{
				ProductoID:        r.producto.ID,
				Cantidad:          r.cantidad,
				PrecioUnitarioUSD: r.producto.PrecioUSD,
				AlicuotaIVA:       r.linea.AlicuotaIVA,
				Regulado:          r.linea.Regulada,
				SubtotalUSD:       prec.Redondear(tl.SubtotalUSD, money.RolTotal),
			}
			if d := req.Items[i].Descuento; d != nil {
				tipo := d.Tipo
				valor := d.Valor
				item.TipoDescuento = &tipo
				item.ValorDescuento = &valor
			}
			venta.Items = append(venta.Items, item)
		}

		for _, a := range resultado.Asignaciones {
			pago := model.VentaPago{
				Metodo: string(a.Metodo),
				Moneda: string(a.Moneda),
				Monto:  a.Monto,
			}
			if a.Ref != nil {
				banco, ref, cedula := a.Ref.Banco, a.Ref.Referencia, a.Ref.Cedula
				if banco != "" {
					pago.Banco = &banco
				}
				if ref != "" {
					pago.Referencia = &ref
				}
				if cedula != "" {
					pago.Cedula = &cedula
				}
			}
			venta.Pagos = append(venta.Pagos, pago)
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// Descontar stock.
		for _, r := range resolved {
			if err := s.productoRepo.AjustarStockTx(tx, r.producto.ID, r.cantidad.Neg()); err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.producto.Nombre, err)
			}
		}

		// Movimientos de caja — one per allocation, immutable.
		for _, a := range resultado.Asignaciones {
			metodo := string(a.Metodo)
			mov := model.MovimientoCaja{
				SesionCajaID: sesionID,
				Tipo:         "venta",
				Metodo:       &metodo,
				Moneda:       string(a.Moneda),
				Monto:        a.Monto,
				Concepto:     fmt.Sprintf("Venta #%d", ticketNum),
				ReferenciaID: &venta.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		// La porción vale nace como cuenta por cobrar.
		if valeBs.IsPositive() && clienteID != nil {
			valeUSD, err := money.AUSD(valeBs, tasa)
			if err != nil {
				return err
			}
			deuda := model.Deuda{
				Tipo:       "cxc",
				ClienteID:  clienteID,
				VentaID:    &venta.ID,
				MontoBs:    valeBs,
				MontoUSD:   prec.Redondear(valeUSD, money.RolTotal),
				SaldoBs:    valeBs,
				TasaCambio: tasa,
				Estado:     "pendiente",
			}
			if err := s.deudaRepo.CreateTx(tx, &deuda); err != nil {
				return err
			}
			if err := s.clienteRepo.AjustarDeudaTx(tx, *clienteID, valeBs); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async PDF ticket (best effort).
	if s.dispatcher != nil {
		payload := worker.TicketJobPayload{VentaID: venta.ID.String()}
		if err := s.dispatcher.EnqueueTicket(ctx, payload); err != nil {
			log.Warn().Err(err).Str("venta", venta.ID.String()).Msg("no se pudo encolar el ticket PDF")
		}
	}

	resp := s.ventaToResponse(&venta, &resumen)
	if totales.Advertencia != nil {
		resp.Advertencias = append(resp.Advertencias, totales.Advertencia.Error())
	}
	for i, r := range resolved {
		resp.Items[i].Producto = r.producto.Nombre
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Cancellation never edits history: stock returns, the drawer gets inverse
// movements, and any deuda born from the sale is cancelled with the
// customer's running debt reduced.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == "anulada" {
		return errors.New("la venta ya está anulada")
	}
	if _, err := s.caja.FindSesionAbierta(ctx, venta.SesionCajaID); err != nil {
		return errors.New("la sesión de la venta ya no está abierta")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range venta.Items {
			if err := s.productoRepo.AjustarStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}
		}

		for _, pago := range venta.Pagos {
			metodo := pago.Metodo
			mov := model.MovimientoCaja{
				SesionCajaID: venta.SesionCajaID,
				Tipo:         "anulacion",
				Metodo:       &metodo,
				Moneda:       pago.Moneda,
				Monto:        pago.Monto.Neg(),
				Concepto:     fmt.Sprintf("Anulación venta #%d — %s", venta.NumeroTicket, motivo),
				ReferenciaID: &venta.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		// Deuda asociada (venta con vale): se anula y el cliente deja de deberla.
		if deuda, err := s.deudaRepo.FindByVentaIDTx(tx, venta.ID); err == nil && deuda.Estado == "pendiente" {
			if deuda.ClienteID != nil && deuda.SaldoBs.IsPositive() {
				if err := s.clienteRepo.AjustarDeudaTx(tx, *deuda.ClienteID, deuda.SaldoBs.Neg()); err != nil {
					return err
				}
			}
			deuda.Estado = "anulada"
			deuda.SaldoBs = decimal.Zero
			if err := s.deudaRepo.UpdateTx(tx, deuda); err != nil {
				return err
			}
		}

		return s.repo.UpdateEstadoTx(tx, id, "anulada")
	})
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	resp := s.ventaToResponse(venta, nil)
	for i, item := range venta.Items {
		if item.Producto != nil {
			resp.Items[i].Producto = item.Producto.Nombre
		}
	}
	return resp, nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "completada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaListItem, 0, len(ventas))
	for i := range ventas {
		v := &ventas[i]
		cajero := ""
		if v.Usuario != nil {
			cajero = v.Usuario.Nombre
		}
		items = append(items, dto.VentaListItem{
			ID:           v.ID.String(),
			NumeroTicket: v.NumeroTicket,
			SesionCajaID: v.SesionCajaID.String(),
			Cajero:       cajero,
			TotalUSD:     v.TotalUSD,
			TotalBs:      v.TotalBs,
			Estado:       v.Estado,
			CreatedAt:    v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.VentaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) ventaToResponse(v *model.Venta, resumen *payment.Resumen) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			Cantidad:          item.Cantidad,
			PrecioUnitarioUSD: item.PrecioUnitarioUSD,
			SubtotalUSD:       item.SubtotalUSD,
		})
	}

	pagos := make([]dto.PagoDTO, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoDTO{
			Metodo:     p.Metodo,
			Moneda:     p.Moneda,
			Monto:      p.Monto,
			Banco:      p.Banco,
			Referencia: p.Referencia,
			Cedula:     p.Cedula,
		})
	}

	resp := &dto.VentaResponse{
		ID:           v.ID.String(),
		NumeroTicket: v.NumeroTicket,
		Items:        items,
		Totales: dto.TotalesDTO{
			SubtotalUSD:  v.SubtotalUSD,
			DescuentoUSD: v.DescuentoUSD,
			IVAUSD:       v.IVAUSD,
			TotalUSD:     v.TotalUSD,
			SubtotalBs:   v.SubtotalBs,
			DescuentoBs:  v.DescuentoBs,
			IVABs:        v.IVABs,
			TotalBs:      v.TotalBs,
		},
		Pagos:      pagos,
		TasaCambio: v.TasaCambio,
		Estado:     v.Estado,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if resumen != nil {
		resp.Resumen = dto.ResumenPagoDTO{
			RecibidoBs:  resumen.RecibidoBs,
			RecibidoUSD: resumen.RecibidoUSD,
			IGTFBs:      resumen.IGTFBs,
			IGTFUSD:     resumen.IGTFUSD,
			VueltoBs:    resumen.VueltoBs,
			VueltoUSD:   resumen.VueltoUSD,
			RestanteBs:  resumen.RestanteBs,
			RestanteUSD: resumen.RestanteUSD,
		}
	}
	return resp
}

// descuentoDesdeDTO maps the wire encoding onto the pricing engine's tagged
// discount. Percentages arrive as fractions 0..1, como las maneja la UI.
func descuentoDesdeDTO(d *dto.DescuentoDTO) (*pricing.Descuento, error) {
	if d == nil {
		return nil, nil
	}
	var out pricing.Descuento
	switch d.Tipo {
	case "porcentaje":
		out = pricing.DescuentoPorcentaje(d.Valor)
	case "monto_bs":
		out = pricing.DescuentoMontoBs(d.Valor)
	case "monto_usd":
		out = pricing.DescuentoMontoUSD(d.Valor)
	default:
		return nil, pricing.ErrDescuentoInvalido
	}
	return &out, nil
}

func refDesdeDTO(p dto.PagoDTO) *payment.RefBancaria {
	if p.Banco == nil && p.Referencia == nil && p.Cedula == nil {
		return nil
	}
	ref := &payment.RefBancaria{}
	if p.Banco != nil {
		ref.Banco = *p.Banco
	}
	if p.Referencia != nil {
		ref.Referencia = *p.Referencia
	}
	if p.Cedula != nil {
		ref.Cedula = *p.Cedula
	}
	return ref
}

// precisionesDesdeConfig snapshots the rounding table once per computation.
func precisionesDesdeConfig(cfg *config.Config) money.Precisiones {
	p := money.PrecisionesPorDefecto()
	if cfg == nil {
		return p
	}
	if cfg.PrecisionPrecio > 0 {
		p.Precio = cfg.PrecisionPrecio
	}
	if cfg.PrecisionCantidad > 0 {
		p.Cantidad = cfg.PrecisionCantidad
	}
	if cfg.PrecisionTotal > 0 {
		p.Total = cfg.PrecisionTotal
	}
	if cfg.PrecisionPorcentaje > 0 {
		p.Porcentaje = cfg.PrecisionPorcentaje
	}
	return p
}
