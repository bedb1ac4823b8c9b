// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/catalog/title"
	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ParamReviewID is the URL parameter holding a review's ID. Comment routes
// read it too.
const ParamReviewID = "review_id"

// Handler implements the HTTP layer for reviews.
type Handler struct {
	service *Service
	rule    access.Rule
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, rule: access.IsAdminModeratorAuthorOrReadOnly}
}

// Routes returns a [chi.Router] mounted at /titles/{title_id}/reviews.
// Reads are public; any authenticated user may post; changes need the
// author, a moderator or an admin.
//
// # Endpoints
//   - GET /               : Paginated reviews of the title.
//   - POST /              : Publish a review (one per user per title).
//   - GET /{review_id}    : Read one review.
//   - PATCH /{review_id}  : Change text or score.
//   - DELETE /{review_id} : Delete with its comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Require(handler.rule))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{review_id}", handler.get)
	router.Patch("/{review_id}", handler.update)
	router.Delete("/{review_id}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

type updateRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

/*
GET /api/v1/titles/{title_id}/reviews.

Response:
  - 200: []Review: Paginated reviews
  - 404: NotFound: Unknown title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IDParam(request, title.ParamTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	reviews, total, err := handler.service.List(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, params.Meta(total))
}

/*
POST /api/v1/titles/{title_id}/reviews.

Request:
  - Body: createRequest

Response:
  - 201: Review: The published review
  - 400: ValidationError: Empty text or score out of bounds
  - 404: NotFound: Unknown title
  - 409: Conflict: The caller already reviewed this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IDParam(request, title.ParamTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), titleID, authorID, CreateInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), review, UpdateInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.load(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), review); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// load resolves the review named by the URL and runs the object-level check
// for the request method.
func (handler *Handler) load(request *http.Request) (*Review, error) {
	titleID, err := requestutil.IDParam(request, title.ParamTitleID, "Title")
	if err != nil {
		return nil, err
	}

	id, err := requestutil.IDParam(request, ParamReviewID, resource)
	if err != nil {
		return nil, err
	}

	review, err := handler.service.Get(request.Context(), titleID, id)
	if err != nil {
		return nil, err
	}

	if err := handler.rule.CheckObject(requestutil.Actor(request), request.Method, review.AuthorID); err != nil {
		return nil, err
	}

	return review, nil
}
