package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/hulquest/ansibullbot/internal/github"
)

// History is the chronologically ordered event log for one issue. It is
// exclusively owned by the wrapper that built it; the cache store holds a
// serialized copy, never a live reference.
type History struct {
	events []Event

	// labelCounts memoizes labeled+unlabeled transitions per label for the
	// waffle detector. Any merge resets it to nil so a later check never
	// trusts a stale count.
	labelCounts map[string]int
}

// NewHistory wraps already-normalized events, sorting and timezone-fixing
// them once.
func NewHistory(events []Event) *History {
	h := &History{events: events}
	h.finalize()
	return h
}

// Events returns the ordered log. Callers must not mutate it.
func (h *History) Events() []Event {
	return h.events
}

// Len returns the number of records in the log.
func (h *History) Len() int {
	return len(h.events)
}

// finalize restores the two log invariants after any construction or merge:
// every timestamp is UTC and the sequence ascends by CreatedAt. The sort is
// stable, so records with equal timestamps keep their input order.
func (h *History) finalize() {
	for i := range h.events {
		h.events[i].CreatedAt = h.events[i].CreatedAt.UTC()
	}
	sort.SliceStable(h.events, func(i, j int) bool {
		return h.events[i].CreatedAt.Before(h.events[j].CreatedAt)
	})
	h.labelCounts = nil
}

// filterActors drops every record whose actor is in the exclusion set.
func (h *History) filterActors(excluded []string) {
	if len(excluded) == 0 {
		return
	}
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}
	kept := h.events[:0]
	for _, e := range h.events {
		if !skip[e.Actor] {
			kept = append(kept, e)
		}
	}
	h.events = kept
	h.labelCounts = nil
}

// MergeCommits appends one committed record per commit. The committer login
// is preferred; commits without a platform account keep the raw git identity.
// Commit dates arrive as text and are interpreted as UTC.
func (h *History) MergeCommits(commits []github.Commit) {
	for _, c := range commits {
		actor := c.Commit.Committer.Name
		if c.Committer != nil && c.Committer.Login != "" {
			actor = c.Committer.Login
		}

		created, err := github.ParseTime(c.Commit.Committer.Date)
		if err != nil {
			created = time.Time{}
		}

		h.events = append(h.events, Event{
			ID:        c.SHA,
			Kind:      Committed,
			Actor:     actor,
			CreatedAt: created,
		})
	}
	h.finalize()
}

// MergeReviews appends one record per review. The state mapping is assumed
// exhaustive, so an unrecognized state is a data integrity violation rather
// than something to drop or misclassify.
func (h *History) MergeReviews(reviews []github.Review) error {
	for _, r := range reviews {
		var kind Kind
		switch r.State {
		case "COMMENTED":
			kind = ReviewComment
		case "CHANGES_REQUESTED":
			kind = ReviewChangesRequested
		case "APPROVED":
			kind = ReviewApproved
		case "DISMISSED":
			kind = ReviewDismissed
		default:
			return fmt.Errorf("unknown review state %q", r.State)
		}

		created, err := github.ParseTime(r.SubmittedAt)
		if err != nil {
			return fmt.Errorf("bad review timestamp %q: %w", r.SubmittedAt, err)
		}

		actor := ""
		if r.User != nil {
			actor = r.User.Login
		}

		h.events = append(h.events, Event{
			ID:        fmt.Sprintf("%d", r.ID),
			Kind:      kind,
			Actor:     actor,
			CreatedAt: created,
			CommitID:  r.CommitID,
		})
	}
	h.finalize()
	return nil
}

// MergeHistory concatenates another issue's already-built history, as when an
// issue was migrated from a different repository. Records are kept as-is: ids
// duplicated across the two logs stay distinct so the migration provenance
// survives.
func (h *History) MergeHistory(other *History) {
	if other == nil {
		return
	}
	h.events = append(h.events, other.events...)
	h.finalize()
}

// AppendEvents adds pre-built records (e.g. CI runs) and restores ordering.
func (h *History) AppendEvents(events []Event) {
	h.events = append(h.events, events...)
	h.finalize()
}
