package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"myblog/database"
	"myblog/errs"
)

const tokenLifetime = 72 * time.Hour

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	jwtSecret string
}

func newAuthHandler(userRepo *database.UserRepo, jwtSecret string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// login verifies credentials and issues the bearer token the auth middleware
// accepts. An unknown email and a wrong password produce the same response.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		user, err := h.userRepo.FindByEmail(req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.Unauthorized)
			} else {
				h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			}
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		claims := jwt.MapClaims{
			"user_id": user.ID.String(),
			"exp":     time.Now().Add(tokenLifetime).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(h.jwtSecret))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("userId", user.ID.String()).Msg("Login successful")
		h.responder.WriteJSON(w, LoginResponse{Token: signed})
	}
}
