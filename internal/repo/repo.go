package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrProductNotFound    = errors.New("product not found")
)

type GormRepo struct {
	DB *gorm.DB
}

// isDuplicateErr also inspects the message because the sqlite driver used in
// tests does not translate unique violations to gorm.ErrDuplicatedKey.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
