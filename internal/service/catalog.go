package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/pricing"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CatalogService struct {
	Repo *repo.GormRepo
}

func validSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return fmt.Errorf("slug %q must be lowercase letters, digits and dashes: %w", slug, ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "list categories")
	}
	return items, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("category %d", id))
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_category")

	category := &models.Category{
		Slug:  strings.TrimSpace(req.Slug),
		Title: strings.TrimSpace(req.Title),
	}
	if err := validSlug(category.Slug); err != nil {
		return nil, err
	}
	if category.Title == "" {
		return nil, fmt.Errorf("title required: %w", ErrValidation)
	}

	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		err = mapRepoErr(err, "create category")
		l.Warn("create_category_error", "slug", category.Slug, "error", err)
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) PatchCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if err := validSlug(slug); err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title required: %w", ErrValidation)
		}
		category.Title = title
	}

	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, mapRepoErr(err, "save category")
	}
	return category, nil
}

// DeleteCategory refuses to drop a category that still has menu items.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	n, err := s.Repo.CountMenuItemsInCategory(ctx, id)
	if err != nil {
		return mapRepoErr(err, "count menu items")
	}
	if n > 0 {
		return fmt.Errorf("category %d has %d menu items: %w", id, n, ErrConflict)
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return mapRepoErr(err, fmt.Sprintf("category %d", id))
	}
	return nil
}

// MenuFilter is the public menu query. Ordering must satisfy repo.ValidMenuOrdering.
type MenuFilter struct {
	Category string
	Featured *bool
	Search   string
	Ordering string
	Offset   int
	Limit    int
}

func (s *CatalogService) ListMenuItems(ctx context.Context, f MenuFilter) (int64, []models.MenuItem, error) {
	if f.Ordering == "" {
		f.Ordering = "price"
	}
	if !repo.ValidMenuOrdering(f.Ordering) {
		return 0, nil, fmt.Errorf("ordering %q: %w", f.Ordering, ErrValidation)
	}

	total, items, err := s.Repo.ListMenuItems(ctx, repo.MenuItemQuery{
		CategorySlug: strings.TrimSpace(f.Category),
		Featured:     f.Featured,
		Search:       f.Search,
		Ordering:     f.Ordering,
		Offset:       f.Offset,
		Limit:        f.Limit,
	})
	if err != nil {
		return 0, nil, mapRepoErr(err, "list menu items")
	}
	return total, items, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("menu item %d", id))
	}
	return item, nil
}

func validPrice(price pricing.Money) error {
	if price.IsNegative() || !price.Fits() {
		return fmt.Errorf("price %s: %w", price, ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_menu_item")

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title required: %w", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("price required: %w", ErrValidation)
	}
	if err := validPrice(*req.Price); err != nil {
		return nil, err
	}
	if req.CategoryID == 0 {
		return nil, fmt.Errorf("category_id required: %w", ErrValidation)
	}
	category, err := s.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Title:      title,
		Price:      *req.Price,
		Featured:   req.Featured,
		CategoryID: category.ID,
	}
	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		err = mapRepoErr(err, "create menu item")
		l.Error("create_menu_item_error", "error", err)
		return nil, err
	}
	item.Category = category
	return item, nil
}

// PatchMenuItem changes the menu only. Existing cart lines and orders keep
// the price they were created with.
func (s *CatalogService) PatchMenuItem(ctx context.Context, id uint, req transport.PatchMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title required: %w", ErrValidation)
		}
		item.Title = title
	}
	if req.Price != nil {
		if err := validPrice(*req.Price); err != nil {
			return nil, err
		}
		item.Price = *req.Price
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		category, err := s.GetCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		item.CategoryID = category.ID
		item.Category = category
	}

	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, mapRepoErr(err, "save menu item")
	}
	return item, nil
}

// DeleteMenuItem refuses items that appear on any order. Cart lines holding
// the item are dropped with it.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	n, err := s.Repo.CountOrderLinesForMenuItem(ctx, id)
	if err != nil {
		return mapRepoErr(err, "count order lines")
	}
	if n > 0 {
		return fmt.Errorf("menu item %d is on %d order lines: %w", id, n, ErrConflict)
	}
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		return mapRepoErr(err, fmt.Sprintf("menu item %d", id))
	}
	return nil
}
