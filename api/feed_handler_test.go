package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/models"
)

func TestAtomFeed(t *testing.T) {
	router, db, _ := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	now := time.Now().UTC()
	post := createTestPost(t, db, author, "Feed Me", now, models.StatusPublished)
	createTestPost(t, db, author, "Invisible Draft", now, models.StatusDraft)

	w := doRequest(t, router, http.MethodGet, "/feed/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "atom+xml")

	body := w.Body.String()
	assert.Contains(t, body, "Feed Me")
	assert.Contains(t, body, "http://testserver"+post.URLPath())
	assert.NotContains(t, body, "Invisible Draft")
}

func TestSitemap(t *testing.T) {
	router, db, _ := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	now := time.Now().UTC()
	post := createTestPost(t, db, author, "Crawl Me", now, models.StatusPublished)
	createTestPost(t, db, author, "Not Yet Public", now, models.StatusDraft)

	w := doRequest(t, router, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "<urlset"))
	assert.Contains(t, body, "http://testserver"+post.URLPath())
	assert.NotContains(t, body, "not-yet-public")
}
