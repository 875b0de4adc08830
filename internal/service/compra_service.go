package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/pricing"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
}

type compraService struct {
	repo         repository.CompraRepository
	caja         CajaService
	cajaRepo     repository.CajaRepository
	productoRepo repository.ProductoRepository
	deudaRepo    repository.DeudaRepository
	cfg          *config.Config
}

func NewCompraService(
	repo repository.CompraRepository,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	productoRepo repository.ProductoRepository,
	deudaRepo repository.DeudaRepository,
	cfg *config.Config,
) CompraService {
	return &compraService{
		repo:         repo,
		caja:         caja,
		cajaRepo:     cajaRepo,
		productoRepo: productoRepo,
		deudaRepo:    deudaRepo,
		cfg:          cfg,
	}
}

// ── RegistrarCompra ───────────────────────────────────────────────────────────
// Mirror of the sale flow with the sign flipped: the same pricing engine
// computes the dual-currency totals, cash payments leave the drawer, stock
// enters, and whatever queda sin pagar nace como cuenta por pagar. No IGTF:
// el recargo aplica a divisas recibidas, no a pagos salientes.

func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
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

	type resolvedItem struct {
		producto *model.Producto
		cantidad decimal.Decimal
		costo    decimal.Decimal
		linea    pricing.Linea
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
			PrecioUnitario: item.CostoUSD,
			Cantidad:       item.Cantidad,
			Descuento:      dcto,
			AlicuotaIVA:    alicuota,
			Regulada:       regulado,
		}
		lineas = append(lineas, linea)
		resolved = append(resolved, resolvedItem{producto: p, cantidad: item.Cantidad, costo: item.CostoUSD, linea: linea})
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

	// Allocation without completeness gating: compras admiten pago parcial.
	asignador, err := payment.NewAsignador(
		totales.TotalBs, totales.TotalUSD, tasa,
		payment.ConfigIGTF{Habilitado: false},
		money.Moneda(req.MonedaLiquidacion), prec,
	)
	if err != nil {
		return nil, err
	}
	for _, pago := range req.Pagos {
		if err := asignador.Agregar(
			payment.Metodo(pago.Metodo), money.Moneda(pago.Moneda), pago.Monto, refDesdeDTO(pago),
		); err != nil {
			return nil, err
		}
	}
	resumen := asignador.Totales()

	var compra model.Compra
	var deudaID *uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ordenNum, err := s.repo.NextOrdenNumber(ctx, tx)
		if err != nil {
			return err
		}

		compra = model.Compra{
			NumeroOrden:  ordenNum,
			SesionCajaID: sesionID,
			UsuarioID:    usuarioID,
			Proveedor:    req.Proveedor,
			SubtotalUSD:  totales.SubtotalUSD,
			DescuentoUSD: totales.DescuentoUSD,
			IVAUSD:       totales.IVAUSD,
			TotalUSD:     totales.TotalUSD,
			SubtotalBs:   totales.SubtotalBs,
			DescuentoBs:  totales.DescuentoBs,
			IVABs:        totales.IVABs,
			TotalBs:      totales.TotalBs,
			TasaCambio:   tasa,
			Estado:       "completada",
		}

		for i, r := range resolved {
			tl, err := pricing.CalcularLinea(r.linea, tasa)
			if err != nil {
				return err
			}
			item := model.CompraItem{
				ProductoID:        r.producto.ID,
				Cantidad:          r.cantidad,
				PrecioUnitarioUSD: r.costo,
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
			compra.Items = append(compra.Items, item)
		}

		for _, pago := range req.Pagos {
			compra.Pagos = append(compra.Pagos, model.CompraPago{
				Metodo:     pago.Metodo,
				Moneda:     pago.Moneda,
				Monto:      pago.Monto,
				Banco:      pago.Banco,
				Referencia: pago.Referencia,
			})
		}

		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}

		// Stock entra y el costo del catálogo se actualiza al último costo.
		for _, r := range resolved {
			if err := s.productoRepo.AjustarStockTx(tx, r.producto.ID, r.cantidad); err != nil {
				return err
			}
			if !r.costo.Equal(r.producto.CostoUSD) {
				if err := s.productoRepo.UpdateCostoTx(tx, r.producto.ID, r.costo); err != nil {
					return err
				}
			}
		}

		// Salidas de caja: el libro solo descuenta el efectivo; el resto de
		// los métodos queda registrado para auditoría.
		for _, pago := range req.Pagos {
			metodo := pago.Metodo
			mov := model.MovimientoCaja{
				SesionCajaID: sesionID,
				Tipo:         "compra",
				Metodo:       &metodo,
				Moneda:       pago.Moneda,
				Monto:        pago.Monto,
				Concepto:     fmt.Sprintf("Compra #%d — %s", ordenNum, req.Proveedor),
				ReferenciaID: &compra.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		// Lo no pagado nace como cuenta por pagar al proveedor.
		restante := resumen.RestanteBs
		if money.Moneda(req.MonedaLiquidacion) == money.USD {
			restante = resumen.RestanteUSD.Mul(tasa)
		}
		restante = prec.Redondear(restante, money.RolTotal)
		if restante.GreaterThan(money.Epsilon) {
			proveedor := req.Proveedor
			restanteUSD, err := money.AUSD(restante, tasa)
			if err != nil {
				return err
			}
			deuda := model.Deuda{
				Tipo:       "cxp",
				Proveedor:  &proveedor,
				CompraID:   &compra.ID,
				MontoBs:    restante,
				MontoUSD:   prec.Redondear(restanteUSD, money.RolTotal),
				SaldoBs:    restante,
				TasaCambio: tasa,
				Estado:     "pendiente",
			}
			if err := s.deudaRepo.CreateTx(tx, &deuda); err != nil {
				return err
			}
			deudaID = &deuda.ID
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return compraToResponse(&compra, &resumen, deudaID), nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra, nil, nil), nil
}

func compraToResponse(c *model.Compra, resumen *payment.Resumen, deudaID *uuid.UUID) *dto.CompraResponse {
	pagos := make([]dto.PagoDTO, 0, len(c.Pagos))
	for _, p := range c.Pagos {
		pagos = append(pagos, dto.PagoDTO{
			Metodo:     p.Metodo,
			Moneda:     p.Moneda,
			Monto:      p.Monto,
			Banco:      p.Banco,
			Referencia: p.Referencia,
		})
	}

	resp := &dto.CompraResponse{
		ID:          c.ID.String(),
		NumeroOrden: c.NumeroOrden,
		Proveedor:   c.Proveedor,
		Totales: dto.TotalesDTO{
			SubtotalUSD:  c.SubtotalUSD,
			DescuentoUSD: c.DescuentoUSD,
			IVAUSD:       c.IVAUSD,
			TotalUSD:     c.TotalUSD,
			SubtotalBs:   c.SubtotalBs,
			DescuentoBs:  c.DescuentoBs,
			IVABs:        c.IVABs,
			TotalBs:      c.TotalBs,
		},
		Pagos:      pagos,
		TasaCambio: c.TasaCambio,
		Estado:     c.Estado,
		CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if resumen != nil {
		resp.Resumen = &dto.ResumenPagoDTO{
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
	if deudaID != nil {
		id := deudaID.String()
		resp.DeudaID = &id
	}
	return resp
}
