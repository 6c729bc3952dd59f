package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Append(ctx context.Context, order *domain.Order) (string, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		log.Printf("order append error: %v", err)
		return "", err
	}
	log.Printf("order %s saved (invoice %d, token %d)", order.ID, order.InvoiceNumber, order.TokenNumber)
	return order.ID, nil
}

func (r *orderRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		// serializer tags are not applied to map updates
		if lines, ok := v.([]domain.CartLine); ok {
			data, err := json.Marshal(lines)
			if err != nil {
				return err
			}
			v = string(data)
		}
		values[k] = v
	}
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		log.Printf("order update error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) Remove(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	if res.Error != nil {
		log.Printf("order remove error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) RemoveAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Order{}).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByToken(ctx context.Context, token int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Order("order_date DESC").First(&o, "token_number = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}
		log.Printf("FindByToken error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Order("order_date DESC").Find(&out).Error; err != nil {
		log.Printf("order list error: %v", err)
		return nil, err
	}
	return out, nil
}
