package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is attached to exactly one post. Comments are only ever created
// through the detail page; moderation flips Active out-of-band.
type Comment struct {
	ID      uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	PostID  uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email   string    `json:"email" db:"email" gorm:"type:text;not null"`
	Body    string    `json:"body" db:"body" gorm:"type:text;not null"`
	Created time.Time `json:"created" db:"created" gorm:"autoCreateTime"`
	Updated time.Time `json:"updated" db:"updated" gorm:"autoUpdateTime"`
	Active  bool      `json:"active" db:"active" gorm:"not null;default:true"`

	Post *Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
