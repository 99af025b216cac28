package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	IsAdmin         bool           `gorm:"default:false" json:"is_admin"`
	IsGalleryPublic bool           `gorm:"default:true" json:"is_gallery_public"`
	IsFeatured      bool           `gorm:"default:false" json:"is_featured"`
	FeaturedUntil   *time.Time     `json:"featured_until,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Artworks []Artwork `gorm:"foreignKey:StudentID" json:"artworks,omitempty"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsCurrentlyFeatured reports whether the student should appear in the
// featured strip at the given time. A nil FeaturedUntil means featured
// indefinitely.
func (s *Student) IsCurrentlyFeatured(now time.Time) bool {
	if !s.IsFeatured {
		return false
	}
	if s.FeaturedUntil != nil && now.After(*s.FeaturedUntil) {
		return false
	}
	return true
}
