// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/catalog/title"
	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ParamCommentID is the URL parameter holding a comment's ID.
const ParamCommentID = "comment_id"

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
	rule    access.Rule
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, rule: access.IsAdminModeratorAuthorOrReadOnly}
}

// Routes returns a [chi.Router] mounted at
// /titles/{title_id}/reviews/{review_id}/comments.
//
// # Endpoints
//   - GET /                : Paginated comments of the review.
//   - POST /               : Post a comment.
//   - GET /{comment_id}    : Read one comment.
//   - PATCH /{comment_id}  : Change the text.
//   - DELETE /{comment_id} : Delete.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Require(handler.rule))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{comment_id}", handler.get)
	router.Patch("/{comment_id}", handler.update)
	router.Delete("/{comment_id}", handler.delete)

	return router
}

type commentRequest struct {
	Text *string `json:"text"`
}

// path reads the title and review ids from the URL.
func path(request *http.Request) (Path, error) {
	titleID, err := requestutil.IDParam(request, title.ParamTitleID, "Title")
	if err != nil {
		return Path{}, err
	}

	reviewID, err := requestutil.IDParam(request, review.ParamReviewID, "Review")
	if err != nil {
		return Path{}, err
	}

	return Path{TitleID: titleID, ReviewID: reviewID}, nil
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	at, err := path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	comments, total, err := handler.service.List(request.Context(), at, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, params.Meta(total))
}

/*
POST /api/v1/titles/{title_id}/reviews/{review_id}/comments.

Response:
  - 201: Comment: The posted comment
  - 400: ValidationError: Empty text
  - 404: NotFound: Unknown title or review, or review of another title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	at, err := path(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var text string
	if input.Text != nil {
		text = *input.Text
	}

	comment, err := handler.service.Create(request.Context(), at, authorID, text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), comment, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), comment); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// load resolves the comment through its title and review, then runs the
// object-level check for the request method.
func (handler *Handler) load(request *http.Request) (*Comment, error) {
	at, err := path(request)
	if err != nil {
		return nil, err
	}

	id, err := requestutil.IDParam(request, ParamCommentID, resource)
	if err != nil {
		return nil, err
	}

	comment, err := handler.service.Get(request.Context(), at, id)
	if err != nil {
		return nil, err
	}

	if err := handler.rule.CheckObject(requestutil.Actor(request), request.Method, comment.AuthorID); err != nil {
		return nil, err
	}

	return comment, nil
}
