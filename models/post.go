package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post status values. Draft posts are invisible to every public-facing view.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a blog post with its metadata and tags
type Post struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title      string    `json:"title" db:"title" gorm:"type:text;not null"`
	Slug       string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_posts_publish_day_slug"`
	AuthorID   uuid.UUID `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	Body       string    `json:"body" db:"body" gorm:"type:text;not null"`
	Publish    time.Time `json:"publish" db:"publish" gorm:"not null;index"`
	PublishDay time.Time `json:"-" db:"publish_day" gorm:"type:date;not null;uniqueIndex:idx_posts_publish_day_slug"`
	Created    time.Time `json:"created" db:"created" gorm:"autoCreateTime"`
	Updated    time.Time `json:"updated" db:"updated" gorm:"autoUpdateTime"`
	Status     string    `json:"status" db:"status" gorm:"type:text;not null;default:draft"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Tags   []Tag `json:"tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the publish-day column in sync with the publish timestamp.
// The (publish day, slug) pair is the post's canonical identity and carries a
// unique index.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	y, m, d := p.Publish.UTC().Date()
	p.PublishDay = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return nil
}

// URLPath returns the canonical address of the post, derived from its publish
// date and slug.
func (p *Post) URLPath() string {
	y, m, d := p.Publish.UTC().Date()
	return fmt.Sprintf("/%04d/%02d/%02d/%s/", y, int(m), d, p.Slug)
}
