package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrSweetNameTaken     = errors.New("sweet name already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
