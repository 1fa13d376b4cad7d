package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/models"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// Services returns the whole catalog in insertion order. Sorting by price
// needs the parsed amount and is left to the caller.
func (r *CatalogGormRepository) Services(ctx context.Context) ([]port.Service, error) {
	var rows []models.Service
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, mapErr("list services", err)
	}

	out := make([]port.Service, len(rows))
	for i, s := range rows {
		out[i] = port.Service{
			ID:       s.ID,
			Name:     s.Name,
			Price:    s.Price,
			Duration: s.Duration,
			Icon:     s.Icon,
		}
	}
	return out, nil
}

func (r *CatalogGormRepository) Barbers(ctx context.Context) ([]port.Barber, error) {
	var rows []models.Barber
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, mapErr("list barbers", err)
	}

	out := make([]port.Barber, len(rows))
	for i, b := range rows {
		out[i] = port.Barber{
			ID:     b.ID,
			Name:   b.Name,
			Image:  b.Image,
			Rating: b.Rating,
		}
	}
	return out, nil
}
