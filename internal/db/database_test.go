package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
}

func TestMigrate_SeedsGroupsIdempotently(t *testing.T) {
	ctx := context.Background()
	gdb, err := Open(ctx, DriverSQLite, memoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Migrate(ctx, gdb))

	var names []string
	require.NoError(t, gdb.Model(&models.Group{}).Order("name ASC").Pluck("name", &names).Error)
	assert.Equal(t, []string{models.GroupDeliveryCrew, models.GroupManager}, names)

	require.NoError(t, Ping(ctx, gdb))
}
