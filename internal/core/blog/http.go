// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quillpost/internal/platform/middleware"
	requestutil "github.com/taibuivan/quillpost/internal/platform/request"
	"github.com/taibuivan/quillpost/internal/platform/respond"
	"github.com/taibuivan/quillpost/pkg/pagination"
	"github.com/taibuivan/quillpost/pkg/slice"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listBlogs)
	router.Get("/{idOrSlug}", handler.getBlog)

	// Members
	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireUser)

		userRoute.Post("/", handler.createBlog)
		userRoute.Put("/{id}", handler.updateBlog)
		userRoute.Delete("/{id}", handler.deleteBlog)
	})

	// Moderation
	router.With(middleware.RequireAdmin).Put("/{id}/banned/{state}", handler.setBanned)
}

func (handler *Handler) listBlogs(writer http.ResponseWriter, request *http.Request) {
	page := pagination.Parse(request.URL.Query())

	filter := Filter{
		Name:      request.URL.Query().Get("name"),
		AccountID: request.URL.Query().Get("accountId"),
	}

	blogs, total, err := handler.service.ListBlogs(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(blogs, (*Blog).Summary), page.Meta(total))
}

func (handler *Handler) getBlog(writer http.ResponseWriter, request *http.Request) {
	blog, err := handler.service.GetBlog(request.Context(), requestutil.Param(request, "idOrSlug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, blog.Summary())
}

func (handler *Handler) createBlog(writer http.ResponseWriter, request *http.Request) {
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

	blog, err := handler.service.CreateBlog(request.Context(), principal, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, blog.Summary(), MsgCreated)
}

func (handler *Handler) updateBlog(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blogID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.UpdateBlog(request.Context(), principal, blogID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OKWithMessage(writer, blog.Summary(), MsgUpdated)
}

func (handler *Handler) deleteBlog(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blogID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBlog(request.Context(), principal, blogID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) setBanned(writer http.ResponseWriter, request *http.Request) {
	blogID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banned, err := requestutil.BoolParam(request, "state")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.SetBanned(request.Context(), blogID, banned)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := MsgUnbanned
	if banned {
		message = MsgBanned
	}
	respond.OKWithMessage(writer, blog.Summary(), message)
}
