package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

var ErrDeudaLiquidada = errors.New("la deuda ya fue liquidada")

// DeudaService settles open balances: cobros de cuentas por cobrar entran a
// la caja, abonos de cuentas por pagar salen de ella. Settlements run through
// the same split-payment engine as a sale, against the frozen origin rate.
type DeudaService interface {
	Abonar(ctx context.Context, deudaID uuid.UUID, req dto.AbonarDeudaRequest) (*dto.AbonoResponse, error)
	Listar(ctx context.Context, filter dto.DeudaFilter) (*dto.DeudaListResponse, error)
}

type deudaService struct {
	repo        repository.DeudaRepository
	caja        CajaService
	cajaRepo    repository.CajaRepository
	clienteRepo repository.ClienteRepository
	cfg         *config.Config
}

func NewDeudaService(
	repo repository.DeudaRepository,
	caja CajaService,
	cajaRepo repository.CajaRepository,
	clienteRepo repository.ClienteRepository,
	cfg *config.Config,
) DeudaService {
	return &deudaService{repo: repo, caja: caja, cajaRepo: cajaRepo, clienteRepo: clienteRepo, cfg: cfg}
}

// ── Abonar ────────────────────────────────────────────────────────────────────
// Partial settlements are allowed; the abono amount is capped at the open
// saldo. Overpayment beyond the saldo es vuelto, nunca saldo a favor.

func (s *deudaService) Abonar(ctx context.Context, deudaID uuid.UUID, req dto.AbonarDeudaRequest) (*dto.AbonoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if _, err := s.caja.FindSesionAbierta(ctx, sesionID); err != nil {
		return nil, err
	}

	deuda, err := s.repo.FindByID(ctx, deudaID)
	if err != nil {
		return nil, errors.New("deuda no encontrada")
	}
	if deuda.Estado != "pendiente" {
		return nil, ErrDeudaLiquidada
	}

	tasa := deuda.TasaCambio
	prec := precisionesDesdeConfig(s.cfg)

	// The allocator computes the dual-currency picture of the settlement
	// against the remaining saldo; completeness is NOT enforced.
	saldoUSD, err := money.AUSD(deuda.SaldoBs, tasa)
	if err != nil {
		return nil, err
	}
	asignador, err := payment.NewAsignador(
		deuda.SaldoBs, saldoUSD, tasa,
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

	// Abonado en Bs, capped at the open saldo.
	abonadoBs := resumen.RecibidoBs
	if abonadoBs.GreaterThan(deuda.SaldoBs) {
		abonadoBs = deuda.SaldoBs
	}
	abonadoBs = prec.Redondear(abonadoBs, money.RolTotal)
	if !abonadoBs.IsPositive() {
		return nil, money.ErrMontoInvalido
	}

	// cxc: el dinero entra (cobro). cxp: el dinero sale (pago al proveedor).
	tipoMovimiento := "cobro_deuda"
	if deuda.Tipo == "cxp" {
		tipoMovimiento = "abono_deuda"
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, pago := range req.Pagos {
			montoBs := pago.Monto
			if money.Moneda(pago.Moneda) == money.USD {
				montoBs = pago.Monto.Mul(tasa)
			}
			abono := model.AbonoDeuda{
				DeudaID:      deuda.ID,
				SesionCajaID: sesionID,
				Metodo:       pago.Metodo,
				Moneda:       pago.Moneda,
				Monto:        pago.Monto,
				MontoBs:      prec.Redondear(montoBs, money.RolTotal),
				TasaCambio:   tasa,
			}
			if err := s.repo.CreateAbonoTx(tx, &abono); err != nil {
				return err
			}

			metodo := pago.Metodo
			mov := model.MovimientoCaja{
				SesionCajaID: sesionID,
				Tipo:         tipoMovimiento,
				Metodo:       &metodo,
				Moneda:       pago.Moneda,
				Monto:        pago.Monto,
				Concepto:     fmt.Sprintf("Abono deuda %s", deuda.ID),
				ReferenciaID: &deuda.ID,
			}
			if err := s.cajaRepo.CreateMovimientoTx(tx, &mov); err != nil {
				return err
			}
		}

		deuda.SaldoBs = deuda.SaldoBs.Sub(abonadoBs)
		if deuda.SaldoBs.LessThanOrEqual(money.Epsilon) {
			deuda.SaldoBs = decimal.Zero
			deuda.Estado = "pagada"
			ahora := time.Now()
			deuda.LiquidadaEn = &ahora
		}
		if err := s.repo.UpdateTx(tx, deuda); err != nil {
			return err
		}

		if deuda.Tipo == "cxc" && deuda.ClienteID != nil {
			if err := s.clienteRepo.AjustarDeudaTx(tx, *deuda.ClienteID, abonadoBs.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.AbonoResponse{
		DeudaID:   deuda.ID.String(),
		AbonadoBs: abonadoBs,
		SaldoBs:   deuda.SaldoBs,
		Estado:    deuda.Estado,
		Resumen: dto.ResumenPagoDTO{
			RecibidoBs:  resumen.RecibidoBs,
			RecibidoUSD: resumen.RecibidoUSD,
			VueltoBs:    resumen.VueltoBs,
			VueltoUSD:   resumen.VueltoUSD,
			RestanteBs:  resumen.RestanteBs,
			RestanteUSD: resumen.RestanteUSD,
		},
		TasaCambio: tasa,
	}, nil
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *deudaService) Listar(ctx context.Context, filter dto.DeudaFilter) (*dto.DeudaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	deudas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DeudaListItem, 0, len(deudas))
	for i := range deudas {
		d := &deudas[i]
		item := dto.DeudaListItem{
			ID:        d.ID.String(),
			Tipo:      d.Tipo,
			Proveedor: d.Proveedor,
			MontoBs:   d.MontoBs,
			MontoUSD:  d.MontoUSD,
			SaldoBs:   d.SaldoBs,
			Estado:    d.Estado,
			CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if d.Cliente != nil {
			nombre := d.Cliente.Nombre
			item.Cliente = &nombre
		}
		items = append(items, item)
	}
	return &dto.DeudaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
