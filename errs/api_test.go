package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("post")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "post not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(BadRequest("nope")))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email", "Enter a valid email address.")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "email", err.Field)
	assert.Equal(t, "Enter a valid email address.", err.Details)
}

func TestNewDatabaseError(t *testing.T) {
	cases := []struct {
		name   string
		cause  error
		status int
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "idx_posts_publish_day_slug"`), http.StatusConflict},
		{"unique constraint", errors.New("UNIQUE constraint failed: posts.slug"), http.StatusConflict},
		{"foreign key", errors.New(`insert or update on table "comments" violates foreign key constraint`), http.StatusBadRequest},
		{"connection", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"generic", errors.New("syntax error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewDatabaseError("create", "post", tc.cause)
			assert.Equal(t, tc.status, err.StatusCode)
			assert.ErrorIs(t, err.Cause, tc.cause)
		})
	}

	// Record-not-found keeps the IsNotFound contract across the wrap.
	assert.True(t, IsNotFound(NewDatabaseError("find", "post", gorm.ErrRecordNotFound)))
}
