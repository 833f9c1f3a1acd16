// Package handler exposes the feed page and the JSON post API.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/postfeed/feed/service"
	"github.com/ncobase/postfeed/feed/session"
	"github.com/ncobase/postfeed/feed/view"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/net/cookie"
)

// Handler aggregates the feed HTTP handlers.
type Handler struct {
	svc      *service.PostService
	views    *view.Registry
	sessions session.Provider
	cookies  cookie.Options
	logger   *logger.Logger
}

// New creates a new handler.
func New(
	svc *service.PostService,
	views *view.Registry,
	sessions session.Provider,
	cookies cookie.Options,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.StdLogger()
	}
	return &Handler{
		svc:      svc,
		views:    views,
		sessions: sessions,
		cookies:  cookies,
		logger:   log,
	}
}

// RegisterRoutes registers the page, the API and the health check. The
// engine must carry view.Templates as its HTML renderer.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Page)
	r.POST("/", h.Submit)
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/posts", h.ListPosts)
		api.POST("/posts", session.RequireSession(h.sessions), h.CreatePost)
		api.GET("/videolink", h.VideoLink)
	}
}
