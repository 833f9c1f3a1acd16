// Package service holds the post business logic between the HTTP layer and
// the post store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/postfeed/ecode"
	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/feed/videolink"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/validator"
)

var (
	// ErrInvalidDraft is returned for a draft that fails validation.
	ErrInvalidDraft = errors.New(ecode.FieldIsInvalid("draft"))
	// ErrNoSession is returned when a post is appended without an identity.
	ErrNoSession = errors.New(ecode.Text(ecode.NoLogin))
)

// ValidationError lists the invalid draft fields. It matches ErrInvalidDraft
// with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	return ErrInvalidDraft.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidDraft }

// PostService lists and appends posts.
type PostService struct {
	repo   repository.PostRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, log *logger.Logger) *PostService {
	if log == nil {
		log = logger.StdLogger()
	}
	return &PostService{repo: repo, logger: log, now: time.Now}
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]*structs.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Append validates draft, stores a post for who and returns the local copy
// the caller displays: Pending, with a placeholder timestamp from the local
// clock. Store assigned values are not read back.
func (s *PostService) Append(ctx context.Context, draft structs.Draft, who structs.Identity) (*structs.Post, error) {
	if fields := validator.ValidateStruct(&draft); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if who.UID == "" {
		return nil, ErrNoSession
	}

	post := &structs.Post{
		Text:        draft.Text,
		ImageURL:    draft.ImageURL,
		YouTubeLink: videolink.Extract(draft.VideoLink),
		UserID:      who.UID,
		UserName:    who.DisplayName,
	}

	if _, err := s.repo.Append(ctx, post); err != nil {
		if !errors.Is(err, repository.ErrStoreWrite) {
			err = fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
		}
		return nil, err
	}

	local := *post
	local.Timestamp = s.now()
	local.Pending = true
	s.logger.Info(ctx, "post appended", "user_id", who.UID, "has_video", local.YouTubeLink != "")
	return &local, nil
}

// Ping checks the post store.
func (s *PostService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
