// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

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
	router.Get("/", handler.listPosts)
	router.Get("/{id}", handler.getPost)

	// Members
	router.Group(func(userRoute chi.Router) {
		userRoute.Use(middleware.RequireUser)

		userRoute.Post("/", handler.createPost)
		userRoute.Put("/{id}", handler.updatePost)
		userRoute.Delete("/{id}", handler.deletePost)
	})

	// Moderation
	router.With(middleware.RequireAdmin).Put("/{id}/banned/{state}", handler.setBanned)
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	page := pagination.Parse(request.URL.Query())
	query := request.URL.Query()

	filter := Filter{
		BlogID:    query.Get("blogId"),
		AccountID: query.Get("accountId"),
		Title:     query.Get("title"),
	}

	posts, total, err := handler.service.ListPosts(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(posts, (*Post).Summary), page.Meta(total))
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.GetPost(request.Context(), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post.Summary())
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
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

	post, err := handler.service.CreatePost(request.Context(), principal, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post.Summary(), MsgCreated)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.UpdatePost(request.Context(), principal, postID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OKWithMessage(writer, post.Summary(), MsgUpdated)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePost(request.Context(), principal, postID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) setBanned(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.UUIDParam(request, "id", MsgInvalidID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banned, err := requestutil.BoolParam(request, "state")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.SetBanned(request.Context(), postID, banned)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := MsgUnbanned
	if banned {
		message = MsgBanned
	}
	respond.OKWithMessage(writer, post.Summary(), message)
}
