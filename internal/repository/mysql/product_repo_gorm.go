package mysql

import (
	"context"
	"errors"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		log.Printf("product load error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveAll upserts in chunks inside one transaction.
func (r *productRepo) SaveAll(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < len(products); i += 100 {
			end := i + 100
			if end > len(products) {
				end = len(products)
			}
			batch := products[i:end]
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&batch).Error; err != nil {
				log.Printf("product batch %d-%d error: %v", i, end, err)
				return err
			}
		}
		log.Printf("saved %d products", len(products))
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}
	return nil
}
