package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Artwork struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student     *Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	IsPrivate   bool           `gorm:"default:false" json:"is_private"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
