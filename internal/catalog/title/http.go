// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// ParamTitleID is the URL parameter holding a title's ID. Nested review
// and comment routes read it too.
const ParamTitleID = "title_id"

// Handler implements the HTTP layer for titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /titles.
// Reads are public; writes need an admin.
//
// # Endpoints
//   - GET /               : Filtered, paginated listing.
//   - POST /              : Create a title.
//   - GET /{title_id}     : Read one title with its rating.
//   - PATCH /{title_id}   : Partial update.
//   - DELETE /{title_id}  : Delete with reviews and comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Require(access.IsAdminOrReadOnly))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{title_id}", handler.get)
	router.Patch("/{title_id}", handler.update)
	router.Delete("/{title_id}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    string   `json:"category"`
}

type updateRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

/*
GET /api/v1/titles.

Description: Lists titles ordered by id.

Request:
  - category: category slug
  - genre: genre slug, or several separated by commas
  - name: case-insensitive name fragment
  - year: exact release year

Response:
  - 200: []Title: Paginated titles with ratings
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	titles, total, err := handler.service.List(request.Context(), Filter{
		Category: values.Get("category"),
		Genres:   query.StringSlice(values.Get("genre")),
		Name:     values.Get("name"),
		Year:     query.Int(values.Get("year")),
		Params:   params,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, params.Meta(total))
}

/*
POST /api/v1/titles.

Request:
  - Body: createRequest (genre and category as slugs)

Response:
  - 201: Title: The created title as a GET would return it
  - 400: ValidationError: Bad input or unknown slugs
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Genre:       input.Genre,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

// GET /api/v1/titles/{title_id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, ParamTitleID, resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// PATCH /api/v1/titles/{title_id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, ParamTitleID, resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Genre:       input.Genre,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// DELETE /api/v1/titles/{title_id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, ParamTitleID, resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
