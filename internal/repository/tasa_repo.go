package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/owaldom/mangopos-app-web-sub000/internal/model"
)

type TasaRepository interface {
	Actual(ctx context.Context) (*model.TasaCambio, error)
	Create(ctx context.Context, t *model.TasaCambio) error
	List(ctx context.Context, limit int) ([]model.TasaCambio, error)
}

type tasaRepo struct{ db *gorm.DB }

func NewTasaRepository(db *gorm.DB) TasaRepository { return &tasaRepo{db: db} }

func (r *tasaRepo) Actual(ctx context.Context) (*model.TasaCambio, error) {
	var t model.TasaCambio
	err := r.db.WithContext(ctx).Order("vigente_desde DESC").First(&t).Error
	return &t, err
}

func (r *tasaRepo) Create(ctx context.Context, t *model.TasaCambio) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tasaRepo) List(ctx context.Context, limit int) ([]model.TasaCambio, error) {
	var tasas []model.TasaCambio
	err := r.db.WithContext(ctx).Order("vigente_desde DESC").Limit(limit).Find(&tasas).Error
	return tasas, err
}
