package history

import "time"

// Status describes how processing ended for a post.
type Status string

const (
	// StatusWaiting marks a post parked for retry after a provider outage.
	StatusWaiting Status = "waiting"
	// StatusNoMatch marks a post whose title found nothing.
	StatusNoMatch Status = "nomatch"
	// StatusPartial marks a post answered with a similar-titles comment.
	StatusPartial Status = "partial"
	// StatusExact marks a post answered with a full review.
	StatusExact Status = "exact"
)

func (s Status) valid() bool {
	switch s {
	case StatusWaiting, StatusNoMatch, StatusPartial, StatusExact:
		return true
	}
	return false
}

// Entry is one processed post.
type Entry struct {
	PostID     string
	PostTitle  string
	Status     Status
	CommentID  string
	MatchTitle string
	MatchYear  int
	IMDbID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
