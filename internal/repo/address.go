package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addrs := []models.Address{}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *GormRepo) GetAddress(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func unsetDefaults(tx *gorm.DB, userID, keep uuid.UUID) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keep, true).
		Update("is_default", false).Error
}

func (r *GormRepo) CreateAddress(ctx context.Context, addr *models.Address) error {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := unsetDefaults(tx, addr.UserID, addr.ID); err != nil {
				return err
			}
		}
		return tx.Create(addr).Error
	})
}

func (r *GormRepo) UpdateAddress(ctx context.Context, id, userID uuid.UUID, req transport.PatchAddressRequest) (*models.Address, error) {
	var addr models.Address
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
			return err
		}
		if req.FullName != nil {
			addr.FullName = *req.FullName
		}
		if req.Street != nil {
			addr.Street = *req.Street
		}
		if req.City != nil {
			addr.City = *req.City
		}
		if req.State != nil {
			addr.State = *req.State
		}
		if req.ZipCode != nil {
			addr.ZipCode = *req.ZipCode
		}
		if req.Country != nil {
			addr.Country = *req.Country
		}
		if req.Phone != nil {
			addr.Phone = *req.Phone
		}
		if req.IsDefault != nil {
			if *req.IsDefault {
				if err := unsetDefaults(tx, userID, id); err != nil {
					return err
				}
			}
			addr.IsDefault = *req.IsDefault
		}
		return tx.Save(&addr).Error
	})
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// SetDefault clears every other default of the user and flags id, in one transaction.
func (r *GormRepo) SetDefault(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
			return err
		}
		if err := unsetDefaults(tx, userID, id); err != nil {
			return err
		}
		addr.IsDefault = true
		return tx.Model(&addr).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
