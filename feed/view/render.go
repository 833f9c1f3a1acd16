package view

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/feed/videolink"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates is the parsed page template set. The HTTP layer hands it to gin.
var Templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"embedURL":   videolink.EmbedURL,
		"formatTime": formatTime,
	}).ParseFS(templateFS, "templates/*.html"),
)

// PageTemplate is the name of the feed page template.
const PageTemplate = "feed.html"

// Model is an immutable snapshot of a view for rendering.
type Model struct {
	Posts      []*structs.Post
	Draft      structs.Draft
	Submitting bool
	Identity   *structs.Identity
	LoadError  string

	EmbedAllow  string
	EmbedWidth  string
	EmbedHeight int
}

// Snapshot captures the view state and the identity active for ctx.
func (v *View) Snapshot(ctx context.Context) Model {
	who, _ := v.sessions.Current(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	m := Model{
		Posts:       make([]*structs.Post, len(v.posts)),
		Draft:       v.draft,
		Submitting:  v.phase == PhaseSubmitting,
		Identity:    who,
		EmbedAllow:  videolink.EmbedAllow,
		EmbedWidth:  videolink.EmbedWidth,
		EmbedHeight: videolink.EmbedHeight,
	}
	for i, p := range v.posts {
		cp := *p
		m.Posts[i] = &cp
	}
	if v.loadErr != nil {
		m.LoadError = "Posts could not be loaded."
	}
	return m
}

// Render writes the feed page for ctx.
func (v *View) Render(ctx context.Context, w io.Writer) error {
	return Templates.ExecuteTemplate(w, PageTemplate, v.Snapshot(ctx))
}

func formatTime(p *structs.Post) string {
	if p.Pending {
		return "just now"
	}
	return p.Timestamp.Local().Format(time.DateTime)
}
