package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/models"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

// Profile returns port.ErrNotFound when the account has no profile row.
func (r *ProfileGormRepository) Profile(ctx context.Context, accountID string) (*port.AccountProfile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).
		Where("id = ?", accountID).
		First(&p).Error; err != nil {
		return nil, mapErr("load profile", err)
	}

	return &port.AccountProfile{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  port.Role(p.Role),
	}, nil
}
