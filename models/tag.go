package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a free-form label shared across posts through the post_tags join
// table.
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:text;not null;unique"`
	Label string    `json:"label" db:"label" gorm:"type:text;not null"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
