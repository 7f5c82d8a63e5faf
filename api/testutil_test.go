package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"myblog/database"
	"myblog/models"
)

const testJWTSecret = "test-secret"

// captureMailer records outgoing messages instead of delivering them.
type captureMailer struct {
	from    string
	to      []string
	subject string
	body    string
	sendErr error
	sent    int
}

func (m *captureMailer) Send(from string, to []string, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.from, m.to, m.subject, m.body = from, to, subject, body
	m.sent++
	return nil
}

func newTestRouter(t *testing.T) (*chi.Mux, database.Database, *captureMailer) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	currentDB := database.New(db)
	mailer := &captureMailer{}
	cfg := map[string]string{
		"JWT_SECRET": testJWTSecret,
		"BASE_URL":   "http://testserver",
		"BLOG_TITLE": "Test Blog",
	}

	return newRouter(currentDB, mailer, withConfig(cfg)), currentDB, mailer
}

func createTestUser(t *testing.T, db database.Database, username, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.UserRepo().Add(user))
	return user
}

func createTestPost(t *testing.T, db database.Database, author *models.User, title string, publish time.Time, status string, tagLabels ...string) *models.Post {
	t.Helper()

	var tags []models.Tag
	for _, label := range tagLabels {
		tag, err := db.TagRepo().FindOrCreate(slugify(label), label)
		require.NoError(t, err)
		tags = append(tags, *tag)
	}

	post := &models.Post{
		Title:    title,
		Slug:     slugify(title),
		AuthorID: author.ID,
		Body:     "Body of " + title,
		Publish:  publish,
		Status:   status,
		Tags:     tags,
	}
	require.NoError(t, db.PostRepo().Add(post))
	return post
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(t *testing.T, router *chi.Mux, method, path, authHeader string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(jsonBody)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
