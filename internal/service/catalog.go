package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const relatedLimit = 4

// Indexer is the product search backend.
type Indexer interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search Indexer
	Events events.Publisher
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

type ProductDetail struct {
	models.Product
	Reviews []models.Review  `json:"reviews"`
	Related []models.Product `json:"relatedProducts"`
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, page int) (*ProductPage, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, fmt.Errorf("minPrice above maxPrice: %w", ErrValidation)
	}
	total, items, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: items, Total: total, Page: page, TotalPages: util.TotalPages(total, f.Limit)}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	reviews, err := s.Repo.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.Repo.RelatedProducts(ctx, p.Category, p.ID, relatedLimit)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, Reviews: reviews, Related: related}, nil
}

// SearchProducts prefers the search index and falls back to a database match when
// the index is absent or failing. Products are always read back from the database.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, limit int) (*ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("empty query: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, limit)

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &ProductPage{Products: items, Total: total, Page: max(page, 1), TotalPages: util.TotalPages(total, limit)}, nil
		}
		logging.FromContext(ctx).Warn("search_index_unavailable", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: items, Total: total, Page: max(page, 1), TotalPages: util.TotalPages(total, limit)}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("name and category required: %w", ErrValidation)
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		return nil, fmt.Errorf("price and stock cannot be negative: %w", ErrValidation)
	}

	prod := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Category:    req.Category,
		Brand:       req.Brand,
		Images:      req.Images,
		Stock:       req.Stock,
		Featured:    req.Featured,
	}
	if req.OriginalPrice != nil {
		prod.OriginalPrice = decimal.NewNullDecimal(req.OriginalPrice.Round(2))
	}
	if prod.Images == nil {
		prod.Images = []string{}
	}

	if _, err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, prod)
	events.Emit(ctx, s.Events, events.TopicProducts, prod.ID.String(), "product_created", prod)
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	s.syncIndex(ctx, prod)
	events.Emit(ctx, s.Events, events.TopicProducts, prod.ID.String(), "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "product")
	}
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_delete_failed", "product_id", id.String(), "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, id.String(), "product_deleted", map[string]string{"id": id.String()})
	return nil
}

func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_sync_failed", "product_id", p.ID.String(), "error", err)
	}
}
