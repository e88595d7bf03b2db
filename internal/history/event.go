package history

import "time"

// Kind classifies a history record. Raw timeline kinds the module does not
// know about pass through unchanged, so the constants below are the vocabulary
// the query engine cares about rather than an exhaustive enum.
type Kind string

const (
	Commented              Kind = "commented"
	Labeled                Kind = "labeled"
	Unlabeled              Kind = "unlabeled"
	Mentioned              Kind = "mentioned"
	Subscribed             Kind = "subscribed"
	Referenced             Kind = "referenced"
	Assigned               Kind = "assigned"
	Unassigned             Kind = "unassigned"
	Reacted                Kind = "reacted"
	Committed              Kind = "committed"
	ReviewComment          Kind = "review_comment"
	ReviewChangesRequested Kind = "review_changes_requested"
	ReviewApproved         Kind = "review_approved"
	ReviewDismissed        Kind = "review_dismissed"
	CIRun                  Kind = "ci_run"

	// AnyKind matches every record in actor scans.
	AnyKind Kind = ""
)

// Event is the uniform unit of history. Which optional fields are populated
// depends on Kind. IDs are unique within their source kind only.
type Event struct {
	ID   string `json:"id"`
	Kind Kind   `json:"event"`
	// Actor is the login that caused the event, empty when the source gave
	// no usable account (deleted users, raw git identities keep the name).
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Body     string `json:"body,omitempty"`
	Label    string `json:"label,omitempty"`
	Content  string `json:"content,omitempty"`
	CommitID string `json:"commit_id,omitempty"`

	// CI run fields.
	State    string `json:"state,omitempty"`
	RunID    string `json:"run_id,omitempty"`
	StatusID string `json:"status_id,omitempty"`
	SHA      string `json:"sha,omitempty"`
}
