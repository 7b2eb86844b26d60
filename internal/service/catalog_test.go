package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lemon/internal/pricing"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/testutil"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

func moneyPtr(s string) *pricing.Money {
	m := pricing.MustParse(s)
	return &m
}

func TestCategories(t *testing.T) {
	t.Parallel()
	gdb := testutil.NewDB(t)
	svc := &CatalogService{Repo: &repo.GormRepo{DB: gdb}}
	ctx := context.Background()

	mains, err := svc.CreateCategory(ctx, transport.CreateCategoryRequest{Slug: "mains", Title: "Mains"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, transport.CreateCategoryRequest{Slug: "mains", Title: "Again"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.CreateCategory(ctx, transport.CreateCategoryRequest{Slug: "Bad Slug", Title: "x"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateCategory(ctx, transport.CreateCategoryRequest{Slug: "drinks"})
	assert.ErrorIs(t, err, ErrValidation)

	title := "Main Courses"
	patched, err := svc.PatchCategory(ctx, mains.ID, transport.PatchCategoryRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "mains", patched.Slug)
	assert.Equal(t, title, patched.Title)

	testutil.CreateMenuItem(t, gdb, mains.ID, "Pasta", "12.99")
	assert.ErrorIs(t, svc.DeleteCategory(ctx, mains.ID), ErrConflict)

	empty, err := svc.CreateCategory(ctx, transport.CreateCategoryRequest{Slug: "desserts", Title: "Desserts"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, empty.ID), ErrNotFound)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMenuItems(t *testing.T) {
	t.Parallel()
	gdb := testutil.NewDB(t)
	svc := &CatalogService{Repo: &repo.GormRepo{DB: gdb}}
	ctx := context.Background()

	mains := testutil.CreateCategory(t, gdb, "mains")
	desserts := testutil.CreateCategory(t, gdb, "desserts")

	pasta, err := svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{
		Title: "Pasta", Price: moneyPtr("12.99"), CategoryID: mains.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{
		Title: "Lemon Cake", Price: moneyPtr("5.00"), Featured: true, CategoryID: desserts.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{
		Title: "Bruschetta", Price: moneyPtr("7.50"), CategoryID: mains.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter MenuFilter
		want   []string
	}{
		{name: "default orders by price", filter: MenuFilter{}, want: []string{"Lemon Cake", "Bruschetta", "Pasta"}},
		{name: "by title desc", filter: MenuFilter{Ordering: "-title"}, want: []string{"Pasta", "Lemon Cake", "Bruschetta"}},
		{name: "category", filter: MenuFilter{Category: "mains"}, want: []string{"Bruschetta", "Pasta"}},
		{name: "search", filter: MenuFilter{Search: "LEMON"}, want: []string{"Lemon Cake"}},
		{name: "page", filter: MenuFilter{Offset: 1, Limit: 1}, want: []string{"Bruschetta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, items, err := svc.ListMenuItems(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	featured := true
	total, _, err := svc.ListMenuItems(ctx, MenuFilter{Featured: &featured})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, err = svc.ListMenuItems(ctx, MenuFilter{Ordering: "calories"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{Title: "Soup", Price: moneyPtr("-1.00"), CategoryID: mains.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{Title: "Soup", Price: moneyPtr("100000000.00"), CategoryID: mains.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{Title: "Soup", Price: moneyPtr("3.00"), CategoryID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CreateMenuItem(ctx, transport.CreateMenuItemRequest{Title: "Soup", CategoryID: mains.ID})
	assert.ErrorIs(t, err, ErrValidation)

	patched, err := svc.PatchMenuItem(ctx, pasta.ID, transport.PatchMenuItemRequest{Price: moneyPtr("13.50")})
	require.NoError(t, err)
	assert.Equal(t, "13.50", patched.Price.String())
	assert.Equal(t, "Pasta", patched.Title)
}

func TestDeleteMenuItem(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	svc := &CatalogService{Repo: f.cart.Repo}
	ctx := context.Background()
	alice := customer(testutil.CreateUser(t, f.db, "alice"))
	bob := customer(testutil.CreateUser(t, f.db, "bob"))

	f.placeOrder(t, alice)
	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, f.pasta.ID), ErrConflict)

	_, err := f.cart.AddOrUpdateLine(ctx, bob, f.cake.ID, 1)
	require.NoError(t, err)

	spare := testutil.CreateMenuItem(t, f.db, f.cake.CategoryID, "Olives", "3.00")
	_, err = f.cart.AddOrUpdateLine(ctx, bob, spare.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMenuItem(ctx, spare.ID))
	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, spare.ID), ErrNotFound)

	lines, err := f.cart.ListLines(ctx, bob)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, f.cake.ID, lines[0].MenuItemID)
}
