package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"myblog/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// ActiveByPost returns the comments visible on a post's detail page, oldest
// first. Comments hidden by moderation are filtered out.
func (r *CommentRepo) ActiveByPost(postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.
		Where("post_id = ? AND active = ?", postID, true).
		Order("created ASC").
		Find(&comments).Error
	return comments, err
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Create(comment).Error
}
