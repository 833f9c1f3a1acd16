package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ncobase/postfeed/ctxutil"
	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/feed/view"
	"github.com/ncobase/postfeed/net/cookie"
)

// view returns the view bound to the request's feed_view cookie, creating
// and binding a new one when the cookie is missing or stale.
func (h *Handler) view(c *gin.Context) *view.View {
	id, _ := cookie.Get(c.Request, cookie.FeedViewName)
	v, ok := h.views.Get(id)
	if !ok {
		id, v = h.views.Create()
		h.cookies.SetFeedView(c.Writer, id)
	}
	c.Request = c.Request.WithContext(ctxutil.SetViewID(c.Request.Context(), id))
	return v
}

// Page renders the feed. ?refresh=1 reloads the list from the store.
func (h *Handler) Page(c *gin.Context) {
	v := h.view(c)
	ctx := c.Request.Context()

	var err error
	if c.Query("refresh") != "" {
		err = v.Load(repository.SkipCache(ctx))
	} else {
		err = v.EnsureLoaded(ctx)
	}
	if errors.Is(err, view.ErrViewClosed) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	// ErrSubmitInFlight keeps the current list; other load errors are
	// logged by the view and shown as a banner

	c.HTML(http.StatusOK, view.PageTemplate, v.Snapshot(ctx))
}

// Submit stores the form as the draft and publishes it. The browser is sent
// back to the page, which shows either the new post or the kept draft. The
// store write is detached from the request so a client disconnect does not
// cancel it.
func (h *Handler) Submit(c *gin.Context) {
	v := h.view(c)
	ctx := c.Request.Context()

	var draft structs.Draft
	if err := c.ShouldBindWith(&draft, binding.Form); err != nil {
		h.logger.Warn(ctx, "binding post form failed", "error", err)
	}

	actx, cancel := ctxutil.WithAsyncContext(ctx, 0)
	defer cancel()

	switch err := v.SubmitDraft(actx, draft); {
	case errors.Is(err, view.ErrSubmitInFlight):
		h.logger.Warn(ctx, "submit ignored, another is pending", "view_id", ctxutil.GetViewID(ctx))
	case errors.Is(err, view.ErrNoSession):
		h.logger.Debug(ctx, "anonymous submit ignored", "view_id", ctxutil.GetViewID(ctx))
	}

	c.Redirect(http.StatusSeeOther, "/")
}
