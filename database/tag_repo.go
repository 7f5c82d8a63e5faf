package database

import (
	"gorm.io/gorm"

	"myblog/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindBySlug returns the tag with the given slug, or gorm.ErrRecordNotFound.
func (r *TagRepo) FindBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreate resolves a tag by slug, creating it with the given label when
// it does not exist yet.
func (r *TagRepo) FindOrCreate(slug, label string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where(models.Tag{Slug: slug}).
		Attrs(models.Tag{Label: label}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
