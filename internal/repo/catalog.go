package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

func (r *GormRepo) CountMenuItemsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MenuItemQuery filters and orders the menu. Ordering must be a key of menuOrderings.
type MenuItemQuery struct {
	CategorySlug string
	Featured     *bool
	Search       string
	Ordering     string
	Offset       int
	Limit        int
}

var menuOrderings = map[string]string{
	"price":  "price ASC",
	"-price": "price DESC",
	"title":  "title ASC",
	"-title": "title DESC",
}

func ValidMenuOrdering(o string) bool {
	_, ok := menuOrderings[o]
	return ok
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q MenuItemQuery) apply(db, root *gorm.DB) *gorm.DB {
	if q.CategorySlug != "" {
		db = db.Where("category_id IN (?)", root.Model(&models.Category{}).Select("id").Where("slug = ?", q.CategorySlug))
	}
	if q.Featured != nil {
		db = db.Where("featured = ?", *q.Featured)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	return db
}

func (r *GormRepo) ListMenuItems(ctx context.Context, q MenuItemQuery) (int64, []models.MenuItem, error) {
	root := r.DB.WithContext(ctx)

	var total int64
	if err := q.apply(root.Model(&models.MenuItem{}), root).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order, ok := menuOrderings[q.Ordering]
	if !ok {
		order = menuOrderings["price"]
	}

	items := []models.MenuItem{}
	db := q.apply(root.Model(&models.MenuItem{}), root).Preload("Category").Order(order).Order("id ASC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset)
	}
	if err := db.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Omit("Category").Create(item).Error
}

func (r *GormRepo) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Omit("Category").Save(item).Error
}

// DeleteMenuItem drops the item together with any cart lines that point at it.
func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.MenuItem{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
