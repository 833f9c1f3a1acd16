package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/postfeed/ecode"
	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/service"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/feed/videolink"
	"github.com/ncobase/postfeed/net/resp"
)

// VideoLink is the body of the video link lookup.
type VideoLink struct {
	ID       string `json:"id"`
	EmbedURL string `json:"embedUrl"`
}

// ListPosts lists every post, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := h.svc.ListAll(ctx)
	if err != nil {
		h.logger.Error(ctx, "listing posts failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer(ecode.Text(ecode.ServerErr)))
		return
	}
	if posts == nil {
		posts = []*structs.Post{}
	}

	resp.Success(c.Writer, &structs.ListPosts{Items: posts, Total: len(posts)})
}

// CreatePost appends a post for the signed-in user.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()

	var draft structs.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	who, ok := h.sessions.Current(ctx)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized(ecode.Text(ecode.NoLogin)))
		return
	}

	post, err := h.svc.Append(ctx, draft, *who)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			resp.Fail(c.Writer, resp.BadRequest(ecode.FieldIsInvalid("draft"), verr.Fields))
		case errors.Is(err, service.ErrNoSession):
			resp.Fail(c.Writer, resp.UnAuthorized(ecode.Text(ecode.NoLogin)))
		case errors.Is(err, repository.ErrStoreWrite):
			h.logger.Error(ctx, "creating post failed", "error", err)
			resp.Fail(c.Writer, resp.BadGateway(ecode.Text(ecode.StoreWrite)))
		default:
			h.logger.Error(ctx, "creating post failed", "error", err)
			resp.Fail(c.Writer, nil)
		}
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, post)
}

// VideoLink extracts the video id from ?url=.
func (h *Handler) VideoLink(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		resp.Fail(c.Writer, resp.BadRequest(ecode.FieldIsRequired("url")))
		return
	}

	id := videolink.Extract(raw)
	resp.Success(c.Writer, &VideoLink{ID: id, EmbedURL: videolink.EmbedURL(id)})
}

// Health pings the post store.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Ping(ctx); err != nil {
		h.logger.Warn(ctx, "health check failed", "error", err)
		resp.Fail(c.Writer, resp.ServiceUnavailable(ecode.Text(ecode.ServiceUnavailable)))
		return
	}

	resp.Success(c.Writer, map[string]string{"status": "healthy"})
}
