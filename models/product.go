package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMarkupPercent is applied to new products when no markup is given.
const DefaultMarkupPercent = 30.0

type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string           `gorm:"not null" json:"name"`
	Description   string           `json:"description"`
	BasePrice     float64          `gorm:"not null" json:"base_price"`
	MarkupPercent float64          `gorm:"default:30" json:"markup_percent"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category      *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageURL      string           `json:"image_url"`
	TotalSales    int              `gorm:"default:0" json:"total_sales"`
	IsPopular     bool             `gorm:"default:false" json:"is_popular"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
