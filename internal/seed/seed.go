// Package seed loads the demo account and starter catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

type product struct {
	name        string
	description string
	price       string
	original    string
	category    string
	brand       string
	image       string
	stock       int
	reviews     int
	rating      float64
}

var catalog = []product{
	{"Wireless Bluetooth Headphones", "Premium noise-cancelling headphones with 30-hour battery life", "89.99", "129.99", "Electronics", "Sony", "photo-1505740420928-5e560c06d30e", 50, 234, 4.5},
	{"Smart Watch Pro", "Track your fitness and stay connected with this advanced smartwatch", "299.99", "", "Electronics", "Apple", "photo-1523275335684-37898b6baf30", 30, 567, 4.8},
	{"Running Shoes", "Lightweight and comfortable running shoes for all terrains", "79.99", "99.99", "Sports", "Nike", "photo-1542291026-7eec264c27ff", 100, 189, 4.3},
	{"Leather Backpack", "Stylish and durable leather backpack with laptop compartment", "129.99", "", "Fashion", "Nike", "photo-1553062407-98eeb64c6a62", 45, 98, 4.6},
	{"4K Ultra HD Smart TV", "55-inch 4K Smart TV with HDR and streaming apps", "499.99", "699.99", "Electronics", "Samsung", "photo-1593359677879-a4bb92f829d1", 20, 432, 4.7},
	{"Yoga Mat Premium", "Extra thick yoga mat with carrying strap", "29.99", "", "Sports", "Adidas", "photo-1601925260368-ae2f83cf8b7f", 150, 76, 4.4},
	{"Coffee Maker Deluxe", "Programmable coffee maker with thermal carafe", "89.99", "", "Home & Garden", "LG", "photo-1517668808822-9ebb02f2a0e6", 60, 145, 4.2},
	{"Wireless Gaming Mouse", "High-precision gaming mouse with RGB lighting", "59.99", "", "Electronics", "Sony", "photo-1527864550417-7fd91fc51a46", 80, 213, 4.6},
}

func (p product) model() models.Product {
	m := models.Product{
		Name:        p.name,
		Description: p.description,
		Price:       decimal.RequireFromString(p.price),
		Category:    p.category,
		Brand:       p.brand,
		Images:      []string{"https://images.unsplash.com/" + p.image + "?w=500"},
		Stock:       p.stock,
		Rating:      p.rating,
		ReviewCount: p.reviews,
		Featured:    true,
	}
	if p.original != "" {
		m.OriginalPrice = decimal.NewNullDecimal(decimal.RequireFromString(p.original))
	}
	return m
}

// Result counts what Run inserted. Rows already present are left alone.
type Result struct {
	UserCreated     bool
	ProductsCreated int
}

// Run is idempotent: the demo user is matched by email and products by name.
func Run(ctx context.Context, r *repo.GormRepo) (*Result, error) {
	l := logging.FromContext(ctx).With("svc", "seed")
	res := &Result{}

	if _, err := r.GetUserByEmail(ctx, DemoEmail); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup demo user: %w", err)
		}
		pw, err := pkg_hash.HashPassword(DemoPassword)
		if err != nil {
			return nil, err
		}
		user := &models.User{Email: DemoEmail, Name: "Demo User", PasswordHash: pw, Role: models.RoleUser}
		if err := r.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create demo user: %w", err)
		}
		res.UserCreated = true
		l.Info("seed_user_created", "email", DemoEmail)
	}

	for _, p := range catalog {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("name = ?", p.name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}
		m := p.model()
		if _, err := r.CreateProduct(ctx, &m); err != nil {
			return nil, fmt.Errorf("create product %q: %w", p.name, err)
		}
		res.ProductsCreated++
		l.Info("seed_product_created", "name", p.name)
	}
	return res, nil
}
