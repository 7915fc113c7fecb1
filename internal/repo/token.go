package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

func (r *GormRepo) AddRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func refreshUsable(tx *gorm.DB, jti, rawToken string) error {
	var stored models.RefreshToken
	if err := tx.Where("jti = ?", jti).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenRevoked
		}
		return err
	}
	if stored.Revoked || stored.ExpiresAt < time.Now().Unix() || stored.Token != jwthelp.Sha256Hex(rawToken) {
		return ErrTokenRevoked
	}
	return nil
}

// RotateRefreshToken revokes the presented token and stores its replacement.
// A token that was already rotated cannot be rotated again.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, rawOld string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refreshUsable(tx, oldJTI, rawOld); err != nil {
			return err
		}
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", jwthelp.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}
