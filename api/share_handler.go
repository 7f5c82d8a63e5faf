package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"myblog/database"
	"myblog/errs"
	"myblog/models"
	"myblog/services"
)

type shareHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	mailer    services.Mailer
	baseURL   string
	fromAddr  string
}

func newShareHandler(postRepo *database.PostRepo, mailer services.Mailer, baseURL, fromAddr string) shareHandler {
	logger := log.With().Str("handlerName", "shareHandler").Logger()

	return shareHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		mailer:    mailer,
		baseURL:   baseURL,
		fromAddr:  fromAddr,
	}
}

// ShareForm is the share-by-email submission payload. Comments are optional.
type ShareForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	To       string `json:"to"`
	Comments string `json:"comments"`
}

func (f ShareForm) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errs.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return errs.NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return errs.NewValidationError("email", "email is not a valid address")
	}
	if strings.TrimSpace(f.To) == "" {
		return errs.NewValidationError("to", "recipient is required")
	}
	if _, err := mail.ParseAddress(f.To); err != nil {
		return errs.NewValidationError("to", "recipient is not a valid address")
	}
	return nil
}

// ShareResponse reports whether the recommendation email went out.
type ShareResponse struct {
	Post *models.Post `json:"post"`
	Sent bool         `json:"sent"`
}

// sharePost emails a link to a published post. The flow is stateless: the only
// side effect is the outgoing mail, and a delivery failure surfaces as
// sent=false rather than a request error.
func (h shareHandler) sharePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid postID"))
			return
		}

		post, err := h.postRepo.FindPublishedByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
			} else {
				h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			}
			return
		}

		sent := false
		if r.Method == http.MethodPost {
			var form ShareForm
			if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
				h.responder.WriteError(w, errs.BadRequest("malformed request body"))
				return
			}
			if err := form.validate(); err != nil {
				h.responder.WriteError(w, err)
				return
			}

			postURL := h.baseURL + post.URLPath()
			subject := fmt.Sprintf("%s (%s) recommends you reading %q", form.Name, form.Email, post.Title)
			body := fmt.Sprintf("Read %q at %s\n\n%s's comments: %s", post.Title, postURL, form.Name, form.Comments)

			if err := h.mailer.Send(h.fromAddr, []string{form.To}, subject, body); err != nil {
				h.logger.Error().Err(err).Str("postId", post.ID.String()).Msg("Failed to send share email")
			} else {
				sent = true
			}
		}

		h.responder.WriteJSON(w, ShareResponse{
			Post: post,
			Sent: sent,
		})
	}
}
