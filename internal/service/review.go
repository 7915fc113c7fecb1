package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

var ErrAlreadyReviewed = errors.New("you have already reviewed this product")

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req transport.CreateReviewRequest) (*models.Review, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("productId required: %w", ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be 1..5: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	review := &models.Review{
		UserID:     userID,
		ProductID:  req.ProductID,
		AuthorName: user.Name,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
	}
	if _, err := s.Repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %w", ErrAlreadyReviewed, ErrConflict)
		}
		return nil, storeErr(err, "product")
	}
	return review, nil
}
