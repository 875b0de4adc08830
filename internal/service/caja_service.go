package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/payment"
	"github.com/owaldom/mangopos-app-web-sub000/internal/reconcile"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
	"github.com/owaldom/mangopos-app-web-sub000/internal/session"
	"github.com/owaldom/mangopos-app-web-sub000/internal/worker"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error
	IniciarCierre(ctx context.Context, sesionID uuid.UUID) ([]dto.CubetaDTO, error)
	ConfirmarCierre(ctx context.Context, req dto.CierreCajaRequest) (*dto.CierreCajaResponse, error)
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	// FindSesionAbierta is used by the venta/compra/deuda flows to validate
	// and snapshot the session before touching the drawer.
	FindSesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	tasa       TasaService
	dispatcher *worker.Dispatcher
	cfg        *config.Config
}

func NewCajaService(repo repository.CajaRepository, tasa TasaService, dispatcher *worker.Dispatcher, cfg *config.Config) CajaService {
	return &cajaService{repo: repo, tasa: tasa, dispatcher: dispatcher, cfg: cfg}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error) {
	if req.SaldoInicialBs.IsNegative() || req.SaldoInicialUSD.IsNegative() {
		return nil, money.ErrMontoInvalido
	}

	// Guard: one open session per host
	if existing, err := s.repo.FindSesionAbiertaPorHost(ctx, req.Host); err == nil && existing != nil {
		return nil, session.ErrCajaYaAbierta
	}

	tasa, err := s.tasa.Actual(ctx)
	if err != nil {
		return nil, err
	}
	secuencia, err := s.repo.NextSecuencia(ctx)
	if err != nil {
		return nil, err
	}

	sesion := &model.SesionCaja{
		Host:            req.Host,
		Secuencia:       secuencia,
		UsuarioID:       usuarioID,
		SaldoInicialBs:  req.SaldoInicialBs,
		SaldoInicialUSD: req.SaldoInicialUSD,
		TasaCambio:      tasa,
		Estado:          string(session.Abierta),
		AbiertaEn:       time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	return s.buildReporte(ctx, sesion)
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Entrada / salida manual de efectivo. Movements are immutable — no
// Update/Delete; corrections are new inverse movements.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	if _, err := s.FindSesionAbierta(ctx, sesionID); err != nil {
		return err
	}
	if !req.Monto.IsPositive() {
		return money.ErrMontoInvalido
	}

	metodo := string(payment.Efectivo)
	mov := &model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         req.Tipo,
		Metodo:       &metodo,
		Moneda:       req.Moneda,
		Monto:        req.Monto,
		Concepto:     req.Concepto,
	}
	return s.repo.CreateMovimiento(ctx, mov)
}

// ── IniciarCierre ─────────────────────────────────────────────────────────────
// Moves the session to "cerrando" and snapshots the expected buckets so the
// blind count compares against a frozen picture.

func (s *cajaService) IniciarCierre(ctx context.Context, sesionID uuid.UUID) ([]dto.CubetaDTO, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, session.ErrSinCajaAbierta
	}
	if sesion.Estado != string(session.Abierta) {
		return nil, session.ErrSinCajaAbierta
	}

	libro, err := s.construirLibro(ctx, sesion)
	if err != nil {
		return nil, err
	}

	sesion.Estado = string(session.Cerrando)
	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	cubetas := libro.EfectivoEsperado()
	resp := make([]dto.CubetaDTO, len(cubetas))
	for i, c := range cubetas {
		resp[i] = dto.CubetaDTO{Etiqueta: c.Etiqueta, Moneda: string(c.Moneda), Esperado: c.Esperado}
	}
	return resp, nil
}

// ── ConfirmarCierre ───────────────────────────────────────────────────────────
// Runs the arqueo. On mismatch the session returns to "abierta" with the
// per-bucket diffs surfaced and nothing persisted; on match the arqueo is
// written, the session freezes and the supervisor gets the report by email.

func (s *cajaService) ConfirmarCierre(ctx context.Context, req dto.CierreCajaRequest) (*dto.CierreCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, session.ErrSinCajaAbierta
	}
	if sesion.Estado != string(session.Cerrando) {
		return nil, errors.New("el cierre no fue iniciado para esta sesión")
	}

	libro, err := s.construirLibro(ctx, sesion)
	if err != nil {
		return nil, err
	}

	informe := libro.Cuadrar(conteoDesdeDTO(req.Conteo))

	resp := &dto.CierreCajaResponse{
		SesionCajaID: sesionID.String(),
		Cuadra:       informe.Cuadra,
		Diferencias:  diferenciasToDTO(informe.Diferencias),
	}

	if !informe.Cuadra {
		sesion.Estado = string(session.Abierta)
		if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
			return nil, err
		}
		resp.Estado = sesion.Estado
		return resp, session.ErrArqueoNoCuadra
	}

	ahora := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, d := range informe.Diferencias {
			detalle := &model.ArqueoDetalle{
				SesionCajaID: sesionID,
				Etiqueta:     d.Cubeta.Etiqueta,
				Moneda:       string(d.Cubeta.Moneda),
				Esperado:     d.Esperado,
				Contado:      d.Contado,
				Delta:        d.Delta,
			}
			if err := s.repo.CreateArqueoDetalleTx(tx, detalle); err != nil {
				return err
			}
		}
		sesion.Estado = string(session.Cerrada)
		sesion.CerradaEn = &ahora
		sesion.Observaciones = req.Observaciones
		return s.repo.UpdateSesionTx(tx, sesion)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp.Estado = sesion.Estado
	s.enviarReporteCierre(ctx, sesion, informe)
	return resp, nil
}

// ── ObtenerReporte ────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	return s.buildReporte(ctx, sesion)
}

// ── FindSesionAbierta ─────────────────────────────────────────────────────────

func (s *cajaService) FindSesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, session.ErrSinCajaAbierta
	}
	if sesion.Estado != string(session.Abierta) {
		return nil, session.ErrSinCajaAbierta
	}
	return sesion, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// construirLibro replays the session's immutable movement log into a fresh
// reconciliation ledger. Anulaciones are stored with negative amounts so the
// replay reverses any bucket, cash or not.
func (s *cajaService) construirLibro(ctx context.Context, sesion *model.SesionCaja) (*reconcile.Libro, error) {
	movs, err := s.repo.ListMovimientos(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	libro := reconcile.NewLibro(sesion.SaldoInicialBs, sesion.SaldoInicialUSD)
	for _, m := range movs {
		switch m.Tipo {
		case "entrada_manual", "salida_manual":
			tipo := reconcile.Entrada
			if m.Tipo == "salida_manual" {
				tipo = reconcile.Salida
			}
			libro.IngresarMovimiento(reconcile.Movimiento{
				Tipo:     tipo,
				Moneda:   money.Moneda(m.Moneda),
				Monto:    m.Monto,
				Concepto: m.Concepto,
			})
		default:
			signo := 1
			if m.Tipo == "compra" || m.Tipo == "abono_deuda" {
				signo = -1
			}
			metodo := payment.Efectivo
			if m.Metodo != nil {
				metodo = payment.Metodo(*m.Metodo)
			}
			libro.IngresarPago(payment.Asignacion{
				Metodo: metodo,
				Moneda: money.Moneda(m.Moneda),
				Monto:  m.Monto,
			}, signo)
		}
	}
	return libro, nil
}

func (s *cajaService) buildReporte(ctx context.Context, sesion *model.SesionCaja) (*dto.ReporteCajaResponse, error) {
	libro, err := s.construirLibro(ctx, sesion)
	if err != nil {
		return nil, err
	}

	cubetas := libro.EfectivoEsperado()
	esperado := make([]dto.CubetaDTO, len(cubetas))
	for i, c := range cubetas {
		esperado[i] = dto.CubetaDTO{Etiqueta: c.Etiqueta, Moneda: string(c.Moneda), Esperado: c.Esperado}
	}

	reporte := &dto.ReporteCajaResponse{
		SesionCajaID:     sesion.ID.String(),
		Host:             sesion.Host,
		Secuencia:        sesion.Secuencia,
		SaldoInicialBs:   sesion.SaldoInicialBs,
		SaldoInicialUSD:  sesion.SaldoInicialUSD,
		TasaCambio:       sesion.TasaCambio,
		EfectivoEsperado: esperado,
		Estado:           sesion.Estado,
		Observaciones:    sesion.Observaciones,
		AbiertaEn:        sesion.AbiertaEn.Format("2006-01-02T15:04:05Z"),
	}
	if sesion.CerradaEn != nil {
		t := sesion.CerradaEn.Format("2006-01-02T15:04:05Z")
		reporte.CerradaEn = &t
	}
	return reporte, nil
}

// enviarReporteCierre queues the supervisor email. Best effort: a broken
// queue never blocks a cierre that already cuadró.
func (s *cajaService) enviarReporteCierre(ctx context.Context, sesion *model.SesionCaja, informe reconcile.Informe) {
	if s.dispatcher == nil || s.cfg == nil || s.cfg.EmailSupervisor == "" {
		return
	}

	body := fmt.Sprintf("Cierre de caja %s — sesión #%d\nHost: %s\nTasa: %s\n\nArqueo:\n",
		s.cfg.NombreTienda, sesion.Secuencia, sesion.Host, sesion.TasaCambio.StringFixed(4))
	for _, d := range informe.Diferencias {
		body += fmt.Sprintf("  %-14s %-3s  esperado %s  contado %s  delta %s\n",
			d.Cubeta.Etiqueta, d.Cubeta.Moneda,
			d.Esperado.StringFixed(2), d.Contado.StringFixed(2), d.Delta.StringFixed(2))
	}

	job := worker.EmailJobPayload{
		ToEmail: s.cfg.EmailSupervisor,
		Subject: fmt.Sprintf("Cierre de caja #%d — %s", sesion.Secuencia, sesion.Host),
		Body:    body,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("sesion", sesion.ID.String()).Msg("no se pudo encolar el reporte de cierre")
	}
}

func conteoDesdeDTO(conteo []dto.ConteoDTO) map[reconcile.Clave]decimal.Decimal {
	out := make(map[reconcile.Clave]decimal.Decimal, len(conteo))
	for _, c := range conteo {
		k := reconcile.Clave{
			Etiqueta: reconcile.EtiquetaCanonica(c.Etiqueta),
			Moneda:   money.Moneda(c.Moneda),
		}
		out[k] = out[k].Add(c.Monto)
	}
	return out
}

func diferenciasToDTO(difs []reconcile.Diferencia) []dto.DiferenciaDTO {
	out := make([]dto.DiferenciaDTO, len(difs))
	for i, d := range difs {
		out[i] = dto.DiferenciaDTO{
			Etiqueta: d.Cubeta.Etiqueta,
			Moneda:   string(d.Cubeta.Moneda),
			Esperado: d.Esperado,
			Contado:  d.Contado,
			Delta:    d.Delta,
		}
	}
	return out
}
