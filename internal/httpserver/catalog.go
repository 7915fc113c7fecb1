package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func productFilter(c echo.Context) (repo.ProductFilter, int, error) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	f := repo.ProductFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		Offset:   offset,
		Limit:    limit,
	}
	if v := c.QueryParam("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, page, err
		}
		f.MinPrice = &d
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, page, err
		}
		f.MaxPrice = &d
	}
	if v := c.QueryParam("minRating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, page, err
		}
		f.MinRating = &r
	}
	if v := c.QueryParam("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, page, err
		}
		f.Featured = &b
	}
	return f, page, nil
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f, page, err := productFilter(c)
	if err != nil {
		l.Warn("get_products_failed", "status", 400, "reason", "bad filter", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	res, err := h.Svc.ListProducts(ctx, f, page)
	if err != nil {
		return svcError(l, "get_products_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	res, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return svcError(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return svcError(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return svcError(l, "product_create_error", err)
	}
	l.Info("product_created", "product_id", prod.ID.String())
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	prod, err := h.Svc.PatchProduct(ctx, req, id)
	if err != nil {
		return svcError(l, "product_patch_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return svcError(l, "product_delete_error", err)
	}
	l.Info("product_deleted", "product_id", id.String())
	return c.NoContent(http.StatusNoContent)
}

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("review_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	review, err := h.Svc.CreateReview(ctx, uid, req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyReviewed) {
			l.Warn("review_create_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "You have already reviewed this product")
		}
		return svcError(l, "review_create_error", err)
	}
	return c.JSON(http.StatusCreated, review)
}
