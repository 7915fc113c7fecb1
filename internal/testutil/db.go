// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/db"
)

// NewDB opens a fresh migrated in-memory SQLite database, closed when t ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), "sqlite::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := repo.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func MakeUser(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User", PasswordHash: "x", Role: models.RoleUser}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func MakeProduct(t *testing.T, gdb *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    "Electronics",
		Brand:       "Acme",
		Images:      []string{"/img/" + uuid.NewString() + ".jpg"},
		Stock:       stock,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func MakeAddress(t *testing.T, gdb *gorm.DB, userID uuid.UUID, isDefault bool) *models.Address {
	t.Helper()
	a := &models.Address{
		UserID: userID,
		PostalAddress: models.PostalAddress{
			FullName: "Jane Doe",
			Street:   "1 Main St",
			City:     "Springfield",
			State:    "IL",
			ZipCode:  "62701",
			Country:  "US",
			Phone:    "555-0100",
		},
		IsDefault: isDefault,
	}
	if err := gdb.Create(a).Error; err != nil {
		t.Fatalf("create address: %v", err)
	}
	return a
}

func AddToCart(t *testing.T, gdb *gorm.DB, userID, productID uuid.UUID, qty uint) *models.CartItem {
	t.Helper()
	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := gdb.Create(item).Error; err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	return item
}
