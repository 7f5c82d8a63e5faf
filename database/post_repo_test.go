package database

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"myblog/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return New(db)
}

func addUser(t *testing.T, db Database, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.UserRepo().Add(user))
	return user
}

func addPost(t *testing.T, db Database, author *models.User, title, slug string, publish time.Time, status string) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:    title,
		Slug:     slug,
		AuthorID: author.ID,
		Body:     "body",
		Publish:  publish,
		Status:   status,
	}
	require.NoError(t, db.PostRepo().Add(post))
	return post
}

func TestFindPublishedByDate(t *testing.T) {
	db := newTestDatabase(t)
	author := addUser(t, db, "alice")

	publish := time.Date(2025, 3, 9, 18, 45, 0, 0, time.UTC)
	addPost(t, db, author, "Visible", "visible", publish, models.StatusPublished)
	addPost(t, db, author, "Hidden", "hidden", publish, models.StatusDraft)

	post, err := db.PostRepo().FindPublishedByDate(2025, 3, 9, "visible")
	require.NoError(t, err)
	assert.Equal(t, "Visible", post.Title)

	// Drafts and wrong dates fail the same way.
	_, err = db.PostRepo().FindPublishedByDate(2025, 3, 9, "hidden")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = db.PostRepo().FindPublishedByDate(2025, 3, 10, "visible")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUniqueSlugForDay(t *testing.T) {
	db := newTestDatabase(t)
	author := addUser(t, db, "alice")

	day := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	addPost(t, db, author, "Title", "title", day, models.StatusDraft)
	addPost(t, db, author, "Title", "title-2", day, models.StatusDraft)

	slug, err := db.PostRepo().UniqueSlugForDay("title", day, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "title-3", slug)

	// A different day is free to reuse the base slug.
	slug, err = db.PostRepo().UniqueSlugForDay("title", day.AddDate(0, 0, 1), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "title", slug)
}

func TestDeleteOwned(t *testing.T) {
	db := newTestDatabase(t)
	alice := addUser(t, db, "alice")
	bob := addUser(t, db, "bob")

	post := addPost(t, db, alice, "Mine", "mine", time.Now().UTC(), models.StatusPublished)

	err := db.PostRepo().DeleteOwned(post.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, db.PostRepo().DeleteOwned(post.ID, alice.ID))

	_, err = db.PostRepo().FindOwned(post.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
