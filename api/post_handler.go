package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"myblog/database"
	"myblog/errs"
	"myblog/models"
)

const (
	postsPerPage      = 3
	similarPostsLimit = 4
	maxCommentName    = 80
	maxPostTitle      = 250
)

type postHandler struct {
	responder   Responder
	logger      zerolog.Logger
	postRepo    *database.PostRepo
	commentRepo *database.CommentRepo
	tagRepo     *database.TagRepo
}

func newPostHandler(postRepo *database.PostRepo, commentRepo *database.CommentRepo, tagRepo *database.TagRepo) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		tagRepo:     tagRepo,
	}
}

// Pagination describes the resolved listing window.
type Pagination struct {
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// PostListResponse is one page of the post listing, optionally filtered by tag.
type PostListResponse struct {
	Posts      []*models.Post `json:"posts"`
	Tag        *models.Tag    `json:"tag,omitempty"`
	Pagination Pagination     `json:"pagination"`
}

// PostDetailResponse is a single published post with its visible comments and
// the shared-tag ranking.
type PostDetailResponse struct {
	Post         *models.Post      `json:"post"`
	Comments     []*models.Comment `json:"comments"`
	SimilarPosts []*models.Post    `json:"similarPosts"`
}

// PostForm carries the mutable post fields. Author is accepted on the wire but
// always overridden by the authenticated user.
type PostForm struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Body   string   `json:"body"`
	Tags   []string `json:"tags"`
}

// PostMutationResponse reports the outcome of a create or update.
type PostMutationResponse struct {
	Post    *models.Post `json:"post"`
	Message string       `json:"message"`
	Update  bool         `json:"update,omitempty"`
}

// CommentForm is the detail-page comment submission payload.
type CommentForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

func (f CommentForm) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errs.NewValidationError("name", "name is required")
	}
	if len(f.Name) > maxCommentName {
		return errs.NewValidationError("name", "name is too long")
	}
	if strings.TrimSpace(f.Email) == "" {
		return errs.NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return errs.NewValidationError("email", "email is not a valid address")
	}
	if strings.TrimSpace(f.Body) == "" {
		return errs.NewValidationError("body", "body is required")
	}
	return nil
}

func (f PostForm) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errs.NewValidationError("title", "title is required")
	}
	if len(f.Title) > maxPostTitle {
		return errs.NewValidationError("title", "title is too long")
	}
	if strings.TrimSpace(f.Body) == "" {
		return errs.NewValidationError("body", "body is required")
	}
	return nil
}

// listPosts serves the home page and the tag-filtered listing. The page query
// parameter clamps to [1, totalPages]; an unknown tag slug is a 404.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tag *models.Tag
		var tagID *uuid.UUID

		if tagSlug := chi.URLParam(r, "tagSlug"); tagSlug != "" {
			found, err := h.tagRepo.FindBySlug(tagSlug)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					h.responder.WriteError(w, errs.NewNotFound("tag"))
				} else {
					h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
				}
				return
			}
			tag = found
			tagID = &found.ID
		}

		total, err := h.postRepo.CountPublished(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count posts", "posts", err))
			return
		}

		totalPages := int((total + postsPerPage - 1) / postsPerPage)
		if totalPages < 1 {
			totalPages = 1
		}

		// Non-numeric and non-positive values resolve to the first page,
		// values past the end to the last one.
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		if page > totalPages {
			page = totalPages
		}

		posts, err := h.postRepo.FindPublishedPage(tagID, page, postsPerPage)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}

		h.responder.WriteJSON(w, PostListResponse{
			Posts: posts,
			Tag:   tag,
			Pagination: Pagination{
				Page:        page,
				TotalPages:  totalPages,
				HasNext:     page < totalPages,
				HasPrevious: page > 1,
			},
		})
	}
}

// postDetail resolves one published post by publish date and slug. A POST
// request additionally submits a comment; the response always carries the
// current comment list and the similar-posts ranking.
func (h postHandler) postDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, _ := strconv.Atoi(chi.URLParam(r, "year"))
		month, _ := strconv.Atoi(chi.URLParam(r, "month"))
		day, _ := strconv.Atoi(chi.URLParam(r, "day"))
		slug := chi.URLParam(r, "slug")

		post, err := h.postRepo.FindPublishedByDate(year, month, day, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
			} else {
				h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			}
			return
		}

		if r.Method == http.MethodPost {
			var form CommentForm
			if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
				h.responder.WriteError(w, errs.BadRequest("malformed request body"))
				return
			}
			if err := form.validate(); err != nil {
				h.responder.WriteError(w, err)
				return
			}

			comment := &models.Comment{
				PostID: post.ID,
				Name:   form.Name,
				Email:  form.Email,
				Body:   form.Body,
				Active: true,
			}
			if err := h.commentRepo.Add(comment); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create comment", "comment", err))
				return
			}
		}

		comments, err := h.commentRepo.ActiveByPost(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "comments", err))
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}

		similar, err := h.postRepo.FindSimilar(post, similarPostsLimit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find similar posts", "posts", err))
			return
		}
		if similar == nil {
			similar = []*models.Post{}
		}

		h.responder.WriteJSON(w, PostDetailResponse{
			Post:         post,
			Comments:     comments,
			SimilarPosts: similar,
		})
	}
}

// createPostForm returns the empty create form.
func (h postHandler) createPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, PostMutationResponse{Post: nil, Message: "", Update: false})
	}
}

// createPost persists a new draft post owned by the authenticated user. The
// slug is derived from the title and kept unique within the publish day.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var form PostForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}
		if err := form.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		now := time.Now().UTC()
		slug, err := h.postRepo.UniqueSlugForDay(slugify(form.Title), now, uuid.Nil)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("derive slug", "post", err))
			return
		}

		tags, err := h.resolveTags(form.Tags)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("resolve tags", "tags", err))
			return
		}

		// The submitted author field is ignored; posts always belong to the
		// authenticated user.
		post := &models.Post{
			Title:    form.Title,
			Slug:     slug,
			AuthorID: userID,
			Body:     form.Body,
			Publish:  now,
			Status:   models.StatusDraft,
			Tags:     tags,
		}
		if err := h.postRepo.Add(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create post", "post", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, PostMutationResponse{
			Post:    post,
			Message: "Your post has been created successfully.",
		})
	}
}

// updatePost mutates a post owned by the authenticated user. Posts authored
// by someone else resolve to NotFound, never Forbidden.
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid postID"))
			return
		}

		post, err := h.postRepo.FindOwned(postID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
			} else {
				h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			}
			return
		}

		var form PostForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}
		if err := form.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// The slug stays stable on update so the canonical URL survives edits.
		post.Title = form.Title
		post.Body = form.Body

		if form.Tags != nil {
			tags, err := h.resolveTags(form.Tags)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("resolve tags", "tags", err))
				return
			}
			if err := h.postRepo.ReplaceTags(post, tags); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update tags", "post", err))
				return
			}
			post.Tags = tags
		}

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		h.responder.WriteJSON(w, PostMutationResponse{
			Post:    post,
			Message: "Your post has been updated successfully.",
			Update:  true,
		})
	}
}

// deletePost removes a post with the same ownership restriction as updatePost.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid postID"))
			return
		}

		if err := h.postRepo.DeleteOwned(postID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
			} else {
				h.responder.WriteError(w, wrapDatabaseError("delete post", "post", err))
			}
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "Your post has been deleted successfully.",
		})
	}
}

// resolveTags maps free-form labels to tag rows, creating missing ones.
func (h postHandler) resolveTags(labels []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		tag, err := h.tagRepo.FindOrCreate(slugify(label), label)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
