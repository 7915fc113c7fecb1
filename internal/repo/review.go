package repo

import (
	"context"
	"math"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReview inserts the review and refreshes the product's rating and review
// count in the same transaction.
func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", review.ProductID).First(&prod).Error; err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			if isDuplicate(err) {
				return ErrAlreadyExists
			}
			return err
		}

		var agg struct {
			Avg float64
			Cnt int64
		}
		if err := tx.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS cnt").
			Where("product_id = ?", review.ProductID).
			Scan(&agg).Error; err != nil {
			return err
		}

		prod.Rating = math.Round(agg.Avg*10) / 10
		prod.ReviewCount = int(agg.Cnt)
		return tx.Model(&models.Product{}).
			Where("id = ?", prod.ID).
			Updates(map[string]any{"rating": prod.Rating, "review_count": prod.ReviewCount}).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
