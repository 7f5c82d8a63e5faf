package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/models"
)

func TestSharePostNotFound(t *testing.T) {
	router, db, _ := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	draft := createTestPost(t, db, author, "Unpublished", time.Now().UTC(), models.StatusDraft)

	// Draft posts are not shareable.
	w := doRequest(t, router, http.MethodGet, "/"+draft.ID.String()+"/share/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSharePostForm(t *testing.T) {
	router, db, mailer := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	post := createTestPost(t, db, author, "Worth Sharing", time.Now().UTC(), models.StatusPublished)

	// The first, non-submission request renders with sent=false.
	w := doRequest(t, router, http.MethodGet, "/"+post.ID.String()+"/share/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ShareResponse](t, w)
	assert.False(t, resp.Sent)
	assert.Equal(t, 0, mailer.sent)
}

func TestSharePostSendsEmail(t *testing.T) {
	router, db, mailer := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	post := createTestPost(t, db, author, "Worth Sharing", time.Now().UTC(), models.StatusPublished)

	form := ShareForm{
		Name:     "Alice",
		Email:    "alice@example.com",
		To:       "bob@example.com",
		Comments: "check this out",
	}
	w := doRequest(t, router, http.MethodPost, "/"+post.ID.String()+"/share/", "", form)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[ShareResponse](t, w)
	assert.True(t, resp.Sent)

	require.Equal(t, 1, mailer.sent)
	assert.Equal(t, "admin@myblog.com", mailer.from)
	assert.Equal(t, []string{"bob@example.com"}, mailer.to)
	assert.Equal(t, `Alice (alice@example.com) recommends you reading "Worth Sharing"`, mailer.subject)
	assert.Equal(t, "Read \"Worth Sharing\" at http://testserver"+post.URLPath()+"\n\nAlice's comments: check this out", mailer.body)
}

func TestSharePostMailFailure(t *testing.T) {
	router, db, mailer := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	post := createTestPost(t, db, author, "Flaky Relay", time.Now().UTC(), models.StatusPublished)
	mailer.sendErr = errors.New("relay refused")

	form := ShareForm{Name: "Alice", Email: "alice@example.com", To: "bob@example.com"}
	w := doRequest(t, router, http.MethodPost, "/"+post.ID.String()+"/share/", "", form)
	require.Equal(t, http.StatusOK, w.Code)

	// Delivery failure is sent=false, not a request error.
	resp := decodeBody[ShareResponse](t, w)
	assert.False(t, resp.Sent)
}

func TestSharePostValidation(t *testing.T) {
	router, db, mailer := newTestRouter(t)
	author := createTestUser(t, db, "alice", "alice@example.com", "secret")

	post := createTestPost(t, db, author, "Strict Form", time.Now().UTC(), models.StatusPublished)

	form := ShareForm{Name: "Alice", Email: "alice@example.com"}
	w := doRequest(t, router, http.MethodPost, "/"+post.ID.String()+"/share/", "", form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, "to", resp.Field)
	assert.Equal(t, 0, mailer.sent)
}
