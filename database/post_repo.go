package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"myblog/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// publishedQuery starts a fresh query over published posts, optionally
// restricted to a single tag.
func (r *PostRepo) publishedQuery(tagID *uuid.UUID) *gorm.DB {
	q := r.db.Model(&models.Post{}).Where("posts.status = ?", models.StatusPublished)
	if tagID != nil {
		q = q.Select("posts.*").
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", *tagID)
	}
	return q
}

// CountPublished returns how many published posts match the filter.
func (r *PostRepo) CountPublished(tagID *uuid.UUID) (int64, error) {
	var total int64
	err := r.publishedQuery(tagID).Count(&total).Error
	return total, err
}

// FindPublishedPage returns one window of published posts ordered by
// descending publish time. Pages are 1-based; the caller clamps the page
// number against CountPublished.
func (r *PostRepo) FindPublishedPage(tagID *uuid.UUID, page, perPage int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.publishedQuery(tagID).
		Preload("Tags").
		Order("posts.publish DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	return posts, err
}

// FindPublishedByDate resolves a single published post by its publish date and
// slug. Drafts and wrong dates both come back as gorm.ErrRecordNotFound.
func (r *PostRepo) FindPublishedByDate(year, month, day int, slug string) (*models.Post, error) {
	publishDay := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	var post models.Post
	err := r.db.Preload("Tags").
		Where("status = ? AND publish_day = ? AND slug = ?", models.StatusPublished, publishDay, slug).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPublishedByID resolves a published post by id. Draft posts are not
// shareable and resolve to gorm.ErrRecordNotFound.
func (r *PostRepo) FindPublishedByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").
		Where("id = ? AND status = ?", id, models.StatusPublished).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindSimilar ranks published posts sharing at least one tag with the given
// post by overlap count, breaking ties by descending publish time. The post
// itself is excluded. A post with no tags yields an empty result.
func (r *PostRepo) FindSimilar(post *models.Post, limit int) ([]*models.Post, error) {
	if len(post.Tags) == 0 {
		return nil, nil
	}

	tagIDs := make([]uuid.UUID, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	var posts []*models.Post
	err := r.db.Model(&models.Post{}).
		Select("posts.*").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id IN ?", tagIDs).
		Where("posts.id <> ?", post.ID).
		Where("posts.status = ?", models.StatusPublished).
		Group("posts.id").
		Order("COUNT(post_tags.tag_id) DESC, posts.publish DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// FindOwned resolves a post by id restricted to the given author. A post
// belonging to someone else is indistinguishable from a missing one.
func (r *PostRepo) FindOwned(id, authorID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").
		Where("id = ? AND author_id = ?", id, authorID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update updates an existing post in the database
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// ReplaceTags sets the post's tag associations to exactly the given set.
func (r *PostRepo) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// DeleteOwned removes a post by id with the same ownership restriction as
// FindOwned.
func (r *PostRepo) DeleteOwned(id, authorID uuid.UUID) error {
	res := r.db.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UniqueSlugForDay extends base with a numeric suffix until no other post on
// the same publish day carries it.
func (r *PostRepo) UniqueSlugForDay(base string, day time.Time, excludeID uuid.UUID) (string, error) {
	publishDay := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)

	slug := base
	for i := 1; ; i++ {
		var count int64
		q := r.db.Model(&models.Post{}).Where("slug = ? AND publish_day = ?", slug, publishDay)
		if excludeID != uuid.Nil {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i+1)
	}
}

// RecentPublished returns the n most recently published posts for the feed.
func (r *PostRepo) RecentPublished(n int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Tags").
		Where("status = ?", models.StatusPublished).
		Order("publish DESC").
		Limit(n).
		Find(&posts).Error
	return posts, err
}

// AllPublished returns every published post for sitemap generation.
func (r *PostRepo) AllPublished() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.
		Where("status = ?", models.StatusPublished).
		Order("publish DESC").
		Find(&posts).Error
	return posts, err
}
