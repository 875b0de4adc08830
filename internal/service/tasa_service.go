package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/config"
	"github.com/owaldom/mangopos-app-web-sub000/internal/dto"
	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
	"github.com/owaldom/mangopos-app-web-sub000/internal/money"
	"github.com/owaldom/mangopos-app-web-sub000/internal/repository"
)

const (
	tasaCacheKey = "tasa:actual"
	tasaCacheTTL = 60 * time.Second
)

// TasaService owns the Bs/USD exchange rate. The newest row of the rate
// table is the current rate; sessions and documents snapshot it once and
// never re-read it mid-flight.
type TasaService interface {
	Actual(ctx context.Context) (decimal.Decimal, error)
	Actualizar(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarTasaRequest) (*dto.TasaResponse, error)
	Historial(ctx context.Context, limit int) ([]dto.TasaResponse, error)
}

type tasaService struct {
	repo repository.TasaRepository
	rdb  *redis.Client
	cfg  *config.Config
}

func NewTasaService(repo repository.TasaRepository, rdb *redis.Client, cfg *config.Config) TasaService {
	return &tasaService{repo: repo, rdb: rdb, cfg: cfg}
}

// Actual returns the current rate, Redis-cached. An empty rate table is
// seeded from TASA_POR_DEFECTO on first read.
func (s *tasaService) Actual(ctx context.Context) (decimal.Decimal, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, tasaCacheKey).Result(); err == nil {
			if d, err := decimal.NewFromString(cached); err == nil && d.IsPositive() {
				return d, nil
			}
		}
	}

	t, err := s.repo.Actual(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t, err = s.seed(ctx)
	}
	if err != nil {
		return decimal.Zero, err
	}
	if err := money.ValidarTasa(t.Valor); err != nil {
		return decimal.Zero, err
	}

	s.cache(ctx, t.Valor)
	return t.Valor, nil
}

func (s *tasaService) Actualizar(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarTasaRequest) (*dto.TasaResponse, error) {
	if err := money.ValidarTasa(req.Valor); err != nil {
		return nil, err
	}
	fuente := req.Fuente
	if fuente == "" {
		fuente = "manual"
	}
	t := &model.TasaCambio{
		Valor:        req.Valor,
		Fuente:       fuente,
		UsuarioID:    &usuarioID,
		VigenteDesde: time.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.cache(ctx, t.Valor)
	return tasaToResponse(t), nil
}

func (s *tasaService) Historial(ctx context.Context, limit int) ([]dto.TasaResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 30
	}
	tasas, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TasaResponse, len(tasas))
	for i := range tasas {
		resp[i] = *tasaToResponse(&tasas[i])
	}
	return resp, nil
}

// seed writes the configured default rate when the table is empty (first boot).
func (s *tasaService) seed(ctx context.Context) (*model.TasaCambio, error) {
	valor, err := decimal.NewFromString(s.cfg.TasaPorDefecto)
	if err != nil || !valor.IsPositive() {
		return nil, money.ErrTasaInvalida
	}
	t := &model.TasaCambio{Valor: valor, Fuente: "default", VigenteDesde: time.Now()}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	log.Info().Str("tasa", valor.String()).Msg("tasa de cambio inicial sembrada desde configuración")
	return t, nil
}

func (s *tasaService) cache(ctx context.Context, valor decimal.Decimal) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, tasaCacheKey, valor.String(), tasaCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo cachear la tasa actual")
	}
}

func tasaToResponse(t *model.TasaCambio) *dto.TasaResponse {
	return &dto.TasaResponse{
		Valor:        t.Valor,
		Fuente:       t.Fuente,
		VigenteDesde: t.VigenteDesde.Format("2006-01-02T15:04:05Z"),
	}
}
