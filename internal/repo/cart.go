package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCart returns the user's lines joined with live product rows, oldest first.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) incrementLine(tx *gorm.DB, item *models.CartItem) (bool, error) {
	res := tx.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
}

// AddToCart adds quantity to the existing (user, product) line or creates it.
// A concurrent insert losing on the unique index falls back to increment.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := r.incrementLine(tx, item); err != nil || ok {
			return err
		}
		return tx.Create(item).Error
	})
	if !isDuplicate(err) {
		return err
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := r.incrementLine(tx, item)
		if err == nil && !ok {
			return gorm.ErrRecordNotFound
		}
		return err
	})
}

func (r *GormRepo) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty uint) (*models.CartItem, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetCartItem(ctx, userID, itemID)
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, itemID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteAllFromCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
