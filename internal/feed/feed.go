package feed

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SortMode selects the listing ordering on the feed.
type SortMode string

const (
	SortNew SortMode = "new"
	SortHot SortMode = "hot"
	SortTop SortMode = "top"
)

// ParseSortMode validates a sort-mode string from configuration.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortNew, SortHot, SortTop:
		return SortMode(s), nil
	case "":
		return SortNew, nil
	default:
		return "", fmt.Errorf("invalid sort mode %q", s)
	}
}

// Post is one submission from the feed. Title is already HTML-unescaped.
type Post struct {
	ID        string
	Title     string
	Author    string
	Permalink string
	NSFW      bool
	CreatedAt time.Time
}

// Comment failures the pipeline records and moves past rather than
// aborting the run.
var (
	ErrTooOld  = errors.New("post is archived")
	ErrDeleted = errors.New("post was deleted")
	ErrLocked  = errors.New("post is locked")
)

// IgnorableError reports whether a comment failure is a property of the
// post rather than of the connection.
func IgnorableError(err error) bool {
	return errors.Is(err, ErrTooOld) || errors.Is(err, ErrDeleted) || errors.Is(err, ErrLocked)
}

// Source is the feed the pipeline scans and replies to.
type Source interface {
	// NewPosts returns up to limit posts in the given ordering, newest
	// first for SortNew.
	NewPosts(ctx context.Context, sort SortMode, limit int) ([]Post, error)
	// PostComment submits a reply under the post and returns the new
	// comment's id.
	PostComment(ctx context.Context, postID, body string) (string, error)
	// SetFlair replaces the post's link flair text.
	SetFlair(ctx context.Context, postID, label string) error
}
