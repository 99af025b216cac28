package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a newsletter or per-student gallery subscription. A row
// with a nil StudentID is a site-wide newsletter signup; a non-nil StudentID
// subscribes the email to that student's gallery updates.
type Subscription struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email                string     `gorm:"not null;uniqueIndex:idx_subscription_email_student" json:"email"`
	StudentID            *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscription_email_student" json:"student_id,omitempty"`
	Student              *Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	SubscribeToGallery   bool       `gorm:"default:false" json:"subscribe_to_gallery"`
	SubscribeToNewsletter bool      `gorm:"default:false" json:"subscribe_to_newsletter"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
