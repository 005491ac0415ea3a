// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

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

// RegisterRoutes mounts the notification endpoints. All of them belong to the caller.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireUser)

		userRoute.Get("/", handler.listNotifications)
		userRoute.Put("/{id}/read", handler.markRead)
		userRoute.Delete("/{id}", handler.deleteNotification)
	})
}

func (handler *Handler) listNotifications(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.Parse(request.URL.Query())

	notifications, total, err := handler.service.List(request.Context(), principal, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notifications, page.Meta(total))
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notification, err := handler.service.MarkRead(request.Context(), principal, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKWithMessage(writer, notification, MsgMarkedRead)
}

func (handler *Handler) deleteNotification(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgDeleted)
}
