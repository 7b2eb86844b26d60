package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func (r *GormRepo) ListCartLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	items := []models.CartLine{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LockCartLines reads the user's cart and takes row locks where the dialect supports them.
func (r *GormRepo) LockCartLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	items := []models.CartLine{}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCartLine inserts the line or overwrites quantity and price snapshots
// of the existing (user, menu item) line. line is reloaded from the database.
func (r *GormRepo) UpsertCartLine(ctx context.Context, line *models.CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "price"}),
		}).Create(line).Error; err != nil {
			return err
		}

		var stored models.CartLine
		if err := tx.Where("user_id = ? AND menu_item_id = ?", line.UserID, line.MenuItemID).First(&stored).Error; err != nil {
			return err
		}
		*line = stored
		return nil
	})
}

func (r *GormRepo) DeleteCartLine(ctx context.Context, userID, lineID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteCartLineByMenuItem(ctx context.Context, userID, menuItemID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Delete(&models.CartLine{}).Error
}

func (r *GormRepo) DeleteCartLinesByID(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
