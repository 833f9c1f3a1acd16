package view

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/postfeed/feed/session"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ann = &structs.Identity{UID: "u1", DisplayName: "Ann"}

type appendCall struct {
	draft structs.Draft
	who   structs.Identity
}

// fakeService records appends. When block is set, Append stores the post,
// signals started and waits for block to close before returning. listBlock
// does the same for ListAll.
type fakeService struct {
	mu          sync.Mutex
	posts       []*structs.Post
	lists       int
	listErr     error
	appendErr   error
	appended    []appendCall
	started     chan struct{}
	block       chan struct{}
	listStarted chan struct{}
	listBlock   chan struct{}
}

func (f *fakeService) ListAll(context.Context) ([]*structs.Post, error) {
	f.mu.Lock()
	f.lists++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	out := make([]*structs.Post, len(f.posts))
	copy(out, f.posts)
	f.mu.Unlock()

	if f.listBlock != nil {
		f.listStarted <- struct{}{}
		<-f.listBlock
	}
	return out, nil
}

func (f *fakeService) Append(_ context.Context, d structs.Draft, who structs.Identity) (*structs.Post, error) {
	f.mu.Lock()
	f.appended = append(f.appended, appendCall{draft: d, who: who})
	if f.appendErr != nil {
		f.mu.Unlock()
		return nil, f.appendErr
	}
	stored := &structs.Post{
		ID:        "new",
		Text:      d.Text,
		ImageURL:  d.ImageURL,
		UserID:    who.UID,
		UserName:  who.DisplayName,
		Timestamp: time.Now(),
	}
	f.posts = append([]*structs.Post{stored}, f.posts...)
	f.mu.Unlock()

	if f.block != nil {
		f.started <- struct{}{}
		<-f.block
	}
	local := *stored
	local.ID = ""
	local.Pending = true
	return &local, nil
}

func (f *fakeService) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func countText(posts []*structs.Post, text string) int {
	n := 0
	for _, p := range posts {
		if p.Text == text {
			n++
		}
	}
	return n
}

func seeded(n int) *fakeService {
	f := &fakeService{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := n; i >= 1; i-- {
		f.posts = append(f.posts, &structs.Post{
			ID:        string(rune('0' + i)),
			Text:      "post " + string(rune('0'+i)),
			UserID:    "u2",
			UserName:  "Bob",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return f
}

func newView(f *fakeService, who *structs.Identity, opts ...Option) *View {
	return New(f, session.Static(who), logger.NewNop(), opts...)
}

func render(t *testing.T, v *View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(context.Background(), &buf))
	return buf.String()
}

func TestLoadShowsEntriesInStoreOrder(t *testing.T) {
	f := seeded(3)
	v := newView(f, ann)
	require.NoError(t, v.Load(context.Background()))

	m := v.Snapshot(context.Background())
	require.Len(t, m.Posts, 3)
	for i, p := range m.Posts {
		assert.Equal(t, f.posts[i].ID, p.ID)
	}

	html := render(t, v)
	assert.Equal(t, 3, strings.Count(html, `<li class="feed-post`))
	assert.Less(t, strings.Index(html, "post 3"), strings.Index(html, "post 2"))
	assert.Less(t, strings.Index(html, "post 2"), strings.Index(html, "post 1"))
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	f := seeded(1)
	v := newView(f, ann)
	ctx := context.Background()

	require.NoError(t, v.EnsureLoaded(ctx))
	require.NoError(t, v.EnsureLoaded(ctx))
	assert.Equal(t, 1, f.lists)

	require.NoError(t, v.Load(ctx))
	assert.Equal(t, 2, f.lists)
}

func TestSubmitSuccessPrependsAndClearsDraft(t *testing.T) {
	f := seeded(2)
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.SetDraft(structs.Draft{Text: "hello"})
	require.NoError(t, v.Submit(ctx))

	require.Len(t, f.appended, 1)
	assert.Equal(t, structs.Draft{Text: "hello"}, f.appended[0].draft)
	assert.Equal(t, *ann, f.appended[0].who)

	posts := v.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, "hello", posts[0].Text)
	assert.Equal(t, "Ann", posts[0].UserName)
	assert.True(t, posts[0].Pending)
	assert.Equal(t, structs.Draft{}, v.Draft())
	assert.Equal(t, PhaseIdle, v.Phase())

	html := render(t, v)
	first := html[strings.Index(html, `<li class="feed-post`):]
	first = first[:strings.Index(first, "</li>")]
	assert.Contains(t, first, "Ann")
	assert.Contains(t, first, "hello")
	assert.Contains(t, first, "just now")
	assert.NotContains(t, first, "<img")
	assert.NotContains(t, first, "<iframe")
}

func TestSubmitFailureKeepsListAndDraft(t *testing.T) {
	f := seeded(2)
	f.appendErr = errors.New("store write failed")
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	draft := structs.Draft{Text: "hello", ImageURL: "https://img.example/a.png", VideoLink: "https://youtu.be/dQw4w9WgXcQ"}
	v.SetDraft(draft)

	err := v.Submit(ctx)
	assert.ErrorIs(t, err, f.appendErr)
	assert.Len(t, v.Posts(), 2)
	assert.Equal(t, draft, v.Draft())
	assert.Equal(t, PhaseIdle, v.Phase())

	html := render(t, v)
	assert.Contains(t, html, "Publish</button>")
	assert.NotContains(t, html, "disabled")
}

func TestSubmitInFlightGuard(t *testing.T) {
	f := seeded(1)
	f.started = make(chan struct{}, 1)
	f.block = make(chan struct{})
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	v.SetDraft(structs.Draft{Text: "hello"})

	done := make(chan error, 1)
	go func() { done <- v.Submit(ctx) }()
	<-f.started

	assert.Equal(t, PhaseSubmitting, v.Phase())
	assert.True(t, v.Snapshot(ctx).Submitting)
	html := render(t, v)
	assert.Contains(t, html, "disabled>Publishing...</button>")

	assert.ErrorIs(t, v.Submit(ctx), ErrSubmitInFlight)

	close(f.block)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseIdle, v.Phase())
	assert.Len(t, f.appended, 1)
	assert.Len(t, v.Posts(), 2)
}

func TestSubmitWithoutSession(t *testing.T) {
	f := seeded(1)
	v := newView(f, nil)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	v.SetDraft(structs.Draft{Text: "hello"})

	assert.ErrorIs(t, v.Submit(ctx), ErrNoSession)
	assert.Empty(t, f.appended)
	assert.Equal(t, "hello", v.Draft().Text)
	assert.Equal(t, PhaseIdle, v.Phase())
}

func TestReloadAfterSubmit(t *testing.T) {
	f := seeded(1)
	v := newView(f, ann, WithReloadAfterSubmit(true))
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.SetDraft(structs.Draft{Text: "hello"})
	require.NoError(t, v.Submit(ctx))

	posts := v.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
	assert.False(t, posts[0].Pending)
	assert.Equal(t, 2, f.lists)
	assert.Equal(t, structs.Draft{}, v.Draft())
}

func TestCloseDuringSubmitDiscardsResult(t *testing.T) {
	f := seeded(1)
	f.started = make(chan struct{}, 1)
	f.block = make(chan struct{})
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	v.SetDraft(structs.Draft{Text: "hello"})

	done := make(chan error, 1)
	go func() { done <- v.Submit(ctx) }()
	<-f.started
	v.Close()
	close(f.block)

	assert.ErrorIs(t, <-done, ErrViewClosed)
	assert.Empty(t, v.Posts())
	assert.ErrorIs(t, v.Load(ctx), ErrViewClosed)
	assert.ErrorIs(t, v.Submit(ctx), ErrViewClosed)
}

func TestLoadFailureShowsBannerAndKeepsList(t *testing.T) {
	f := seeded(2)
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	f.listErr = errors.New("timeout")
	assert.ErrorIs(t, v.Load(ctx), f.listErr)
	assert.Len(t, v.Posts(), 2)

	html := render(t, v)
	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, `href="/?refresh=1">Retry`)

	f.listErr = nil
	require.NoError(t, v.Load(ctx))
	assert.Empty(t, v.Snapshot(ctx).LoadError)
}

func TestFormOnlyWithSession(t *testing.T) {
	anon := newView(seeded(1), nil)
	require.NoError(t, anon.Load(context.Background()))
	assert.NotContains(t, render(t, anon), "<form")

	signed := newView(seeded(1), ann)
	html := render(t, signed)
	assert.Contains(t, html, `<form class="feed-form" method="post" action="/">`)
	assert.Contains(t, html, "Posting as Ann")
	assert.Contains(t, html, `name="youtube_link"`)
}

func TestRenderMedia(t *testing.T) {
	f := &fakeService{posts: []*structs.Post{{
		ID:          "1",
		Text:        "watch",
		ImageURL:    "https://img.example/a.png",
		YouTubeLink: "dQw4w9WgXcQ",
		UserName:    "Ann",
	}}}
	v := newView(f, nil)
	require.NoError(t, v.Load(context.Background()))

	html := render(t, v)
	assert.Contains(t, html, `<img class="feed-post-image" src="https://img.example/a.png"`)
	assert.Contains(t, html, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)
	assert.Contains(t, html, `width="100%" height="315"`)
	assert.Contains(t, html, `allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`)
	assert.Contains(t, html, "allowfullscreen")
}

func TestRenderEscapesText(t *testing.T) {
	f := &fakeService{posts: []*structs.Post{{ID: "1", Text: "<script>alert(1)</script>", ImageURL: "javascript:alert(1)"}}}
	v := newView(f, nil)
	require.NoError(t, v.Load(context.Background()))

	html := render(t, v)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "javascript:alert")
}

func TestDraftRoundTripsThroughForm(t *testing.T) {
	v := newView(&fakeService{}, ann)
	v.SetDraft(structs.Draft{Text: "kept", ImageURL: "https://img.example/b.png", VideoLink: "https://youtu.be/x"})

	html := render(t, v)
	assert.Contains(t, html, ">kept</textarea>")
	assert.Contains(t, html, `value="https://img.example/b.png"`)
	assert.Contains(t, html, `value="https://youtu.be/x"`)
}

func TestLoadDuringSubmitKeepsSingleCopy(t *testing.T) {
	f := seeded(1)
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	f.started = make(chan struct{}, 1)
	f.block = make(chan struct{})

	v.SetDraft(structs.Draft{Text: "hello"})
	done := make(chan error, 1)
	go func() { done <- v.Submit(ctx) }()
	<-f.started

	// the post is already in the store, the append has not returned
	assert.ErrorIs(t, v.Load(ctx), ErrSubmitInFlight)
	assert.Len(t, v.Posts(), 1)

	close(f.block)
	require.NoError(t, <-done)
	posts := v.Posts()
	assert.Len(t, posts, 2)
	assert.Equal(t, 1, countText(posts, "hello"))

	require.NoError(t, v.Load(ctx))
	assert.Equal(t, 1, countText(v.Posts(), "hello"))
}

func TestSubmitWaitsForLoadInFlight(t *testing.T) {
	f := seeded(1)
	v := newView(f, ann)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))
	f.listStarted = make(chan struct{}, 1)
	f.listBlock = make(chan struct{})

	loaded := make(chan error, 1)
	go func() { loaded <- v.Load(ctx) }()
	<-f.listStarted

	submitted := make(chan error, 1)
	go func() { submitted <- v.SubmitDraft(ctx, structs.Draft{Text: "hello"}) }()
	assert.Never(t, func() bool { return f.appendCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	close(f.listBlock)
	require.NoError(t, <-loaded)
	require.NoError(t, <-submitted)

	posts := v.Posts()
	assert.Len(t, posts, 2)
	assert.Equal(t, 1, countText(posts, "hello"))
}

func TestSubmitDraftInFlightKeepsPendingDraft(t *testing.T) {
	f := seeded(1)
	f.started = make(chan struct{}, 1)
	f.block = make(chan struct{})
	v := newView(f, ann)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- v.SubmitDraft(ctx, structs.Draft{Text: "first"}) }()
	<-f.started

	assert.ErrorIs(t, v.SubmitDraft(ctx, structs.Draft{Text: "second"}), ErrSubmitInFlight)
	assert.Equal(t, "first", v.Draft().Text)

	close(f.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.appendCount())
	assert.Equal(t, "first", f.appended[0].draft.Text)
	assert.Equal(t, structs.Draft{}, v.Draft())
}

func TestImageFieldIsPlainText(t *testing.T) {
	html := render(t, newView(&fakeService{}, ann))
	assert.Contains(t, html, `<input type="text" name="image_url"`)
	assert.NotContains(t, html, `type="url"`)
}
