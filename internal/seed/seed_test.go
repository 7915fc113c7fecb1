package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/seed"
	"github.com/Skotchmaster/storefront/internal/testutil"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
)

func TestRunIsIdempotent(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &repo.GormRepo{DB: gdb}
	ctx := context.Background()

	first, err := seed.Run(ctx, r)
	require.NoError(t, err)
	assert.True(t, first.UserCreated)
	assert.Equal(t, 8, first.ProductsCreated)

	second, err := seed.Run(ctx, r)
	require.NoError(t, err)
	assert.False(t, second.UserCreated)
	assert.Zero(t, second.ProductsCreated)

	var count int64
	require.NoError(t, gdb.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 8, count)

	user, err := r.GetUserByEmail(ctx, seed.DemoEmail)
	require.NoError(t, err)
	assert.True(t, pkg_hash.CheckPassword(user.PasswordHash, seed.DemoPassword))

	var headphones models.Product
	require.NoError(t, gdb.Where("name = ?", "Wireless Bluetooth Headphones").First(&headphones).Error)
	assert.Equal(t, "89.99", headphones.Price.StringFixed(2))
	assert.True(t, headphones.OriginalPrice.Valid)
	assert.Equal(t, 50, headphones.Stock)
}
