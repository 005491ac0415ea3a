// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quillpost/internal/platform/middleware"
	requestutil "github.com/taibuivan/quillpost/internal/platform/request"
	"github.com/taibuivan/quillpost/internal/platform/respond"
	"github.com/taibuivan/quillpost/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLikes)

	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireUser)

		userRoute.Post("/", handler.createLike)
		userRoute.Delete("/{id}", handler.deleteLike)
	})
}

func (handler *Handler) listLikes(writer http.ResponseWriter, request *http.Request) {
	page := pagination.Parse(request.URL.Query())

	likes, total, err := handler.service.ListLikes(request.Context(), request.URL.Query().Get("postId"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, likes, page.Meta(total))
}

func (handler *Handler) createLike(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	like, err := handler.service.CreateLike(request.Context(), principal, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, like, MsgCreated)
}

func (handler *Handler) deleteLike(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	likeID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteLike(request.Context(), principal, likeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}
