package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

// OrderQuery filters the order list. Nil filters are ignored.
type OrderQuery struct {
	OwnerID        *uint
	DeliveryCrewID *uint
	Status         *bool
	Offset         int
	Limit          int
}

func (q OrderQuery) apply(db *gorm.DB) *gorm.DB {
	if q.OwnerID != nil {
		db = db.Where("user_id = ?", *q.OwnerID)
	}
	if q.DeliveryCrewID != nil {
		db = db.Where("delivery_crew_id = ?", *q.DeliveryCrewID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	return db
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) LockOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, q OrderQuery) (int64, []models.Order, error) {
	var total int64
	if err := q.apply(r.DB.WithContext(ctx).Model(&models.Order{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := []models.Order{}
	db := q.apply(r.DB.WithContext(ctx).Model(&models.Order{})).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").Order("id DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset)
	}
	if err := db.Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderFields(ctx context.Context, id uint, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteOrder removes the order and its lines. It returns gorm.ErrRecordNotFound
// when no order was deleted.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) CountOrderLinesForMenuItem(ctx context.Context, menuItemID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderLine{}).Where("menu_item_id = ?", menuItemID).Count(&n).Error
	return n, err
}
