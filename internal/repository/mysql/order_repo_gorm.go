package mysql

import (
	"context"
	"errors"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	// The item snapshot lives in a JSON column on the order row, so the
	// order and its items commit in one write.
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		log.Printf("order save error: %v", err)
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		log.Printf("order find error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		log.Printf("order list error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	// Save writes every column, including the nil timestamp pointers, so a
	// cleared completedAt/cancelledAt really reaches the row.
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", order.ID).
		Select("*").Omit("id", "created_at").
		Updates(order)
	if res.Error != nil {
		log.Printf("order update error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	if res.Error != nil {
		log.Printf("order delete error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
