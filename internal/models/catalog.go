package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"                    json:"id"`
	Name          string              `gorm:"not null"                                json:"name"`
	Description   string              `gorm:"not null"                                json:"description"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null"             json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)"                      json:"originalPrice"`
	Category      string              `gorm:"index;not null"                          json:"category"`
	Brand         string              `gorm:"index"                                   json:"brand"`
	Images        []string            `gorm:"type:text;serializer:json"               json:"images"`
	Stock         int                 `gorm:"not null;default:0"                      json:"stock"`
	Rating        float64             `gorm:"not null;default:0"                      json:"rating"`
	ReviewCount   int                 `gorm:"not null;default:0"                      json:"reviewCount"`
	Featured      bool                `gorm:"not null;default:false"                  json:"featured"`
	CreatedAt     time.Time           `gorm:"index"                                   json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                              json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user_product;not null" json:"userId"`
	ProductID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user_product;not null" json:"productId"`
	AuthorName string    `gorm:"not null"                                          json:"authorName"`
	Rating     int       `gorm:"not null;check:rating_range,rating >= 1 AND rating <= 5" json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
