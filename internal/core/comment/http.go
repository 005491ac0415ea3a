// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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
	// Public
	router.Get("/", handler.listComments)
	router.Get("/{id}", handler.getComment)

	// Members
	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireUser)

		userRoute.Post("/", handler.createComment)
		userRoute.Put("/{id}", handler.updateComment)
		userRoute.Delete("/{id}", handler.deleteComment)
	})

	// Moderation
	router.With(middleware.RequireAdmin).Put("/{id}/banned/{state}", handler.setBanned)
}

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	page := pagination.Parse(request.URL.Query())
	filter := Filter{PostID: request.URL.Query().Get("postId")}

	comments, total, err := handler.service.ListComments(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, page.Meta(total))
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
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

	comment, err := handler.service.CreateComment(request.Context(), principal, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment, MsgCreated)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), principal, commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OKWithMessage(writer, comment, MsgUpdated)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), principal, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) setBanned(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banned, err := requestutil.BoolParam(request, "state")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.SetBanned(request.Context(), commentID, banned)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := MsgUnbanned
	if banned {
		message = MsgBanned
	}
	respond.OKWithMessage(writer, comment, message)
}
