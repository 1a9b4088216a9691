package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Haseeb044/ecommerce-backend-design/internal/hash"
	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/tokens"
)

func (r *GormRepo) UserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreateUserIfNotExists pre-checks by username but treats the unique index
// as the authoritative arbiter: a duplicate-key error from the insert maps
// to ErrUserAlreadyExists the same as a pre-check hit.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		if isDuplicateErr(tx.Error) {
			return ErrUserAlreadyExists
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, raw string, userID uint, secret []byte) error {
	claims, err := tokens.RefreshClaimsFromToken(raw, secret)
	if err != nil {
		return err
	}
	rt := models.RefreshToken{
		Token:     tokens.Sha256Hex(raw),
		UserID:    userID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&rt).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, raw string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(raw)).
		Update("revoked", true).Error
}

// RefreshUsable reports whether the stored refresh token is present,
// unrevoked and unexpired.
func (r *GormRepo) RefreshUsable(ctx context.Context, raw string) (bool, error) {
	var stored models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", tokens.Sha256Hex(raw)).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if stored.Revoked || time.Now().Unix() > stored.ExpiresAt {
		return false, nil
	}
	return true, nil
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
