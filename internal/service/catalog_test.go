package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type fakeIndex struct {
	ids     []uuid.UUID
	err     error
	indexed []uuid.UUID
	deleted []uuid.UUID
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	return int64(len(f.ids)), f.ids, f.err
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type topicLog struct{ topics []string }

func (l *topicLog) PublishEvent(_ context.Context, topic, _ string, _ any) error {
	l.topics = append(l.topics, topic)
	return nil
}

func TestCatalog_SearchUsesIndexThenDatabase(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &repo.GormRepo{DB: gdb}
	watch := testutil.MakeProduct(t, gdb, "Smart Watch", "299.99", 5)
	testutil.MakeProduct(t, gdb, "Headphones", "89.99", 5)

	idx := &fakeIndex{ids: []uuid.UUID{watch.ID}}
	svc := &service.CatalogService{Repo: r, Search: idx}

	page, err := svc.SearchProducts(context.Background(), "wtch", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, watch.ID, page.Products[0].ID)

	idx.err = errors.New("cluster red")
	page, err = svc.SearchProducts(context.Background(), "headphones", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Headphones", page.Products[0].Name)

	_, err = svc.SearchProducts(context.Background(), "  ", 1, 20)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCatalog_CreatePatchDeleteSyncs(t *testing.T) {
	gdb := testutil.NewDB(t)
	idx := &fakeIndex{}
	log := &topicLog{}
	svc := &service.CatalogService{Repo: &repo.GormRepo{DB: gdb}, Search: idx, Events: log}
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Bad", Category: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, service.ErrValidation)

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Running Shoes", Category: "Sports", Brand: "Nike", Price: decimal.RequireFromString("79.99"), Stock: 3,
	})
	require.NoError(t, err)

	stock := 7
	patched, err := svc.PatchProduct(ctx, transport.PatchProductRequest{Stock: &stock}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, patched.Stock)

	neg := decimal.NewFromInt(-5)
	_, err = svc.PatchProduct(ctx, transport.PatchProductRequest{Price: &neg}, p.ID)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.PatchProduct(ctx, transport.PatchProductRequest{Stock: &stock}, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), service.ErrNotFound)

	assert.Equal(t, []uuid.UUID{p.ID, p.ID}, idx.indexed)
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)
	assert.Equal(t, []string{"product_events", "product_events", "product_events"}, log.topics)
}

func TestCatalog_ProductDetail(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &repo.GormRepo{DB: gdb}
	svc := &service.CatalogService{Repo: r}
	main := testutil.MakeProduct(t, gdb, "Main", "10.00", 1)
	for i := 0; i < 5; i++ {
		testutil.MakeProduct(t, gdb, "Sibling", "10.00", 1)
	}

	detail, err := svc.GetProduct(context.Background(), main.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", detail.Name)
	assert.Len(t, detail.Related, 4)
	assert.Empty(t, detail.Reviews)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalog_ListRejectsInvertedRange(t *testing.T) {
	svc := &service.CatalogService{Repo: &repo.GormRepo{DB: testutil.NewDB(t)}}
	lo, hi := decimal.NewFromInt(100), decimal.NewFromInt(10)
	_, err := svc.ListProducts(context.Background(), repo.ProductFilter{MinPrice: &lo, MaxPrice: &hi, Limit: 20}, 1)
	assert.ErrorIs(t, err, service.ErrValidation)
}
