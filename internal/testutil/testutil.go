// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/db"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/pricing"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// CreateUser inserts a user that belongs to the given role groups.
func CreateUser(t *testing.T, gdb *gorm.DB, username string, groups ...string) models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)

	for _, name := range groups {
		var group models.Group
		require.NoError(t, gdb.Where("name = ?", name).First(&group).Error)
		require.NoError(t, gdb.Model(&user).Association("Groups").Append(&group))
	}
	return user
}

func CreateCategory(t *testing.T, gdb *gorm.DB, slug string) models.Category {
	t.Helper()

	category := models.Category{Slug: slug, Title: slug}
	require.NoError(t, gdb.Create(&category).Error)
	return category
}

func CreateMenuItem(t *testing.T, gdb *gorm.DB, categoryID uint, title, price string) models.MenuItem {
	t.Helper()

	item := models.MenuItem{Title: title, Price: pricing.MustParse(price), CategoryID: categoryID}
	require.NoError(t, gdb.Create(&item).Error)
	return item
}
