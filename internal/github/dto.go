package github

import "time"

// User is the minimal actor shape shared by events, comments and reviews.
// Login is empty when the account has been deleted.
type User struct {
	Login string `json:"login"`
}

// LabelRef is the label payload embedded in labeled/unlabeled timeline events.
type LabelRef struct {
	Name string `json:"name"`
}

// TimelineEvent is a single entry from the issue events API.
type TimelineEvent struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	Actor     *User     `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
	CommitID  string    `json:"commit_id,omitempty"`
	Label     *LabelRef `json:"label,omitempty"`
}

// Comment is a single entry from the issue comments API.
type Comment struct {
	ID        int64     `json:"id"`
	User      *User     `json:"user"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Reaction is a single entry from the reactions API. The API delivers the
// timestamp as text, so it is kept as a string and parsed during
// normalization.
type Reaction struct {
	ID        int64  `json:"id"`
	User      *User  `json:"user"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Review is a single entry from the pull request reviews API.
type Review struct {
	ID          int64  `json:"id"`
	User        *User  `json:"user"`
	State       string `json:"state"`
	CommitID    string `json:"commit_id"`
	SubmittedAt string `json:"submitted_at"`
}

// Commit is a single entry from the pull request commits API. Committer is
// nil when the commit author has no platform account; the nested commit
// object then carries the raw git identity.
type Commit struct {
	SHA       string `json:"sha"`
	Committer *User  `json:"committer"`
	Commit    struct {
		Committer struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// RateLimit mirrors the core rate limit resource of the API.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// ParseTime is a helper for the strict API time format.
func ParseTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05Z", s)
}
