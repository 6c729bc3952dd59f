package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type counterRepo struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) repository.CounterRepository {
	return &counterRepo{db: db}
}

// Read returns 0 for a counter that was never written.
func (r *counterRepo) Read(ctx context.Context, name string) (int64, error) {
	var c domain.Counter
	err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

func (r *counterRepo) Write(ctx context.Context, name string, value int64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&domain.Counter{Name: name, Value: value}).Error
}
