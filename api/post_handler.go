package api

import (
	"encoding/json"
	"net/http"

	"github.com/feldspar-labs/inkwell-backend/database"
	"github.com/feldspar-labs/inkwell-backend/errs"
	"github.com/feldspar-labs/inkwell-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     database.PostStore
}

func newPostHandler(store database.PostStore) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// upsertRequest is the wire payload for POST /posts.
type upsertRequest struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// listPosts retrieves summaries of all posts, newest first
// @Summary List posts
// @Description Retrieves all posts ordered by creation time descending, without content
// @Tags Posts
// @Produce json
// @Success 200 {array} models.PostSummary "Post summaries"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := h.store.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "posts", err))
			return
		}

		h.responder.WriteJSON(w, summaries)
	}
}

// getPost retrieves a single post by ID, content included
// @Summary Get post
// @Description Retrieves the full post record for the given ID
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID"
// @Success 200 {object} models.Post "Full post record"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postID")
		if postID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing postID"))
			return
		}

		post, err := h.store.Get(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// upsertPost inserts or overwrites a post keyed on its ID
// @Summary Upsert post
// @Description Inserts the post, or overwrites the mutable fields of the row with the same ID
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body upsertRequest true "Post data"
// @Success 200 {object} models.Post "Persisted post record"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing required field"
// @Failure 403 {object} ErrorResponse "Forbidden - Bad or missing admin secret"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts [post]
func (h postHandler) upsertPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Admin secret verified by middleware

		var req upsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("post", err))
			return
		}

		for _, field := range []struct {
			name  string
			value string
		}{
			{"id", req.ID},
			{"title", req.Title},
			{"content", req.Content},
		} {
			if field.value == "" {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError(field.name))
				return
			}
		}

		post, err := h.store.Upsert(r.Context(), &models.Post{
			ID:      req.ID,
			Title:   req.Title,
			Content: req.Content,
			Excerpt: req.Excerpt,
			Tags:    req.Tags,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert", "post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost permanently removes a post by ID
// @Summary Delete post
// @Description Permanently deletes the post with the given ID
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID"
// @Success 200 {object} DeleteResponse "Deletion confirmation"
// @Failure 403 {object} ErrorResponse "Forbidden - Bad or missing admin secret"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Admin secret verified by middleware

		postID := chi.URLParam(r, "postID")
		if postID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing postID"))
			return
		}

		if err := h.store.Delete(r.Context(), postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "post", err))
			return
		}

		h.responder.WriteJSON(w, DeleteResponse{Deleted: true, ID: postID})
	}
}
