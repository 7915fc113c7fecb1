package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostalAddress is the deliverable part of an address. Orders keep their own copy.
type PostalAddress struct {
	FullName string `gorm:"not null" json:"fullName"`
	Street   string `gorm:"not null" json:"street"`
	City     string `gorm:"not null" json:"city"`
	State    string `gorm:"not null" json:"state"`
	ZipCode  string `gorm:"not null" json:"zipCode"`
	Country  string `gorm:"not null" json:"country"`
	Phone    string `gorm:"not null" json:"phone"`
}

type Address struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"  json:"userId"`

	PostalAddress `gorm:"embedded"`

	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
