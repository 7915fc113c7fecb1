package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	require.Equal(t, 1, one)
}

func TestDialector(t *testing.T) {
	_, embedded := dialector("postgres://u:p@localhost:5432/shop?sslmode=disable")
	require.False(t, embedded)

	_, embedded = dialector("file:shop.db")
	require.True(t, embedded)

	_, embedded = dialector("sqlite://shop.db")
	require.True(t, embedded)
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	gdb, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.Equal(t, "postgres", gdb.Dialector.Name())
}
