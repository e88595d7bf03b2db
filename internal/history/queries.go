package history

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// matchesActor reports whether the record's actor is one of the given logins.
func matchesActor(e Event, actors []string) bool {
	for _, a := range actors {
		if e.Actor == a {
			return true
		}
	}
	return false
}

// FindByActor scans the log in chronological order and returns up to max
// records of the given kind by any of the given actors. AnyKind matches every
// kind; max <= 0 means no limit. This is the primitive behind all the has/was
// predicates.
func (h *History) FindByActor(kind Kind, max int, actors ...string) []Event {
	var matches []Event
	for _, e := range h.events {
		if kind != AnyKind && e.Kind != kind {
			continue
		}
		if !matchesActor(e, actors) {
			continue
		}
		matches = append(matches, e)
		if max > 0 && len(matches) == max {
			break
		}
	}
	return matches
}

// GetUserComments returns all comment bodies by a user.
func (h *History) GetUserComments(username string) []string {
	var comments []string
	for _, e := range h.FindByActor(Commented, 0, username) {
		comments = append(comments, e.Body)
	}
	return comments
}

// SearchUserComments returns the user's comment bodies containing the term.
// The match is case-insensitive on the body side, like the original search.
func (h *History) SearchUserComments(username, term string) []string {
	var comments []string
	for _, e := range h.FindByActor(Commented, 0, username) {
		if strings.Contains(strings.ToLower(e.Body), term) {
			comments = append(comments, e.Body)
		}
	}
	return comments
}

// GroupBy selects the bucketing key for GetUserCommentsGroupedBy.
type GroupBy string

const (
	GroupByDay   GroupBy = "d"
	GroupByWeek  GroupBy = "w"
	GroupByMonth GroupBy = "m"
	GroupByYear  GroupBy = "y"
)

// GetUserCommentsGroupedBy counts a user's comments bucketed by day, week,
// month or year. An unrecognized group key yields an empty result.
func (h *History) GetUserCommentsGroupedBy(username string, groupBy GroupBy) map[string]int {
	groups := make(map[string]int)
	for _, e := range h.FindByActor(Commented, 0, username) {
		created := e.CreatedAt
		var key string
		switch groupBy {
		case GroupByDay:
			key = created.Format("2006-1-2")
		case GroupByWeek:
			year, week := created.ISOWeek()
			key = fmt.Sprintf("%d-%d", year, week)
		case GroupByMonth:
			key = created.Format("2006-1")
		case GroupByYear:
			key = created.Format("2006")
		default:
			continue
		}
		groups[key]++
	}
	return groups
}

// IsReferenced reports whether the issue was ever referenced by the user.
func (h *History) IsReferenced(username string) bool {
	return len(h.FindByActor(Referenced, 1, username)) > 0
}

// IsMentioned reports whether the user was ever mentioned in the issue.
func (h *History) IsMentioned(username string) bool {
	return len(h.FindByActor(Mentioned, 1, username)) > 0
}

// HasViewed reports whether the user interacted with the issue in any way.
func (h *History) HasViewed(username string) bool {
	return len(h.FindByActor(AnyKind, 1, username)) > 0
}

// HasCommented reports whether the user ever commented.
func (h *History) HasCommented(username string) bool {
	return len(h.FindByActor(Commented, 1, username)) > 0
}

// HasLabeled reports whether the user ever applied a label.
func (h *History) HasLabeled(username string) bool {
	return len(h.FindByActor(Labeled, 1, username)) > 0
}

// HasUnlabeled reports whether the user ever removed a label.
func (h *History) HasUnlabeled(username string) bool {
	return len(h.FindByActor(Unlabeled, 1, username)) > 0
}

// HasReviewed reports whether the user ever reviewed, in any review state.
func (h *History) HasReviewed(username string) bool {
	for _, kind := range []Kind{ReviewComment, ReviewChangesRequested, ReviewApproved, ReviewDismissed} {
		if len(h.FindByActor(kind, 1, username)) > 0 {
			return true
		}
	}
	return false
}

// HasSubscribed reports whether the user ever subscribed.
func (h *History) HasSubscribed(username string) bool {
	return len(h.FindByActor(Subscribed, 1, username)) > 0
}

// WasAssigned reports whether the user was ever assigned.
func (h *History) WasAssigned(username string) bool {
	return len(h.FindByActor(Assigned, 1, username)) > 0
}

// WasUnassigned reports whether the user was ever unassigned.
func (h *History) WasUnassigned(username string) bool {
	return len(h.FindByActor(Unassigned, 1, username)) > 0
}

// WasSubscribed reports whether the user was ever subscribed.
func (h *History) WasSubscribed(username string) bool {
	return len(h.FindByActor(Subscribed, 1, username)) > 0
}

// LastViewedAt returns the most recent activity time for any of the given
// users, zero if they never touched the issue.
func (h *History) LastViewedAt(usernames ...string) time.Time {
	for i := len(h.events) - 1; i >= 0; i-- {
		if matchesActor(h.events[i], usernames) {
			return h.events[i].CreatedAt
		}
	}
	return time.Time{}
}

// LastNotified returns the most recent time any of the users was pinged with
// an @-mention in a comment body, zero if never.
func (h *History) LastNotified(usernames ...string) time.Time {
	var pings []string
	for _, u := range usernames {
		pings = append(pings, "@"+u)
	}

	var last time.Time
	for _, e := range h.events {
		if e.Kind != Commented {
			continue
		}
		for _, ping := range pings {
			if strings.Contains(e.Body, ping) && e.CreatedAt.After(last) {
				last = e.CreatedAt
			}
		}
	}
	return last
}

// LastCommentedAt returns the most recent comment time by any of the users.
func (h *History) LastCommentedAt(usernames ...string) time.Time {
	for i := len(h.events) - 1; i >= 0; i-- {
		e := h.events[i]
		if e.Kind == Commented && matchesActor(e, usernames) {
			return e.CreatedAt
		}
	}
	return time.Time{}
}

// LastComment returns the most recent comment body by any of the users.
func (h *History) LastComment(usernames ...string) string {
	for i := len(h.events) - 1; i >= 0; i-- {
		e := h.events[i]
		if e.Kind == Commented && matchesActor(e, usernames) {
			return e.Body
		}
	}
	return ""
}

// LastCommentor returns who commented last, empty if nobody has.
func (h *History) LastCommentor() string {
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Kind == Commented {
			return h.events[i].Actor
		}
	}
	return ""
}

// LabelLastApplied returns when the label was last applied, zero if never.
func (h *History) LabelLastApplied(label string) time.Time {
	for i := len(h.events) - 1; i >= 0; i-- {
		e := h.events[i]
		if e.Kind == Labeled && e.Label == label {
			return e.CreatedAt
		}
	}
	return time.Time{}
}

// LabelLastRemoved returns when the label was last removed, zero if never.
func (h *History) LabelLastRemoved(label string) time.Time {
	for i := len(h.events) - 1; i >= 0; i-- {
		e := h.events[i]
		if e.Kind == Unlabeled && e.Label == label {
			return e.CreatedAt
		}
	}
	return time.Time{}
}

// WasLabeled reports whether the label was ever applied. An empty label
// matches any application. Records by the listed bots are ignored.
func (h *History) WasLabeled(label string, bots ...string) bool {
	for _, e := range h.events {
		if matchesActor(e, bots) {
			continue
		}
		if e.Kind == Labeled && (label == "" || e.Label == label) {
			return true
		}
	}
	return false
}

// WasUnlabeled reports whether the label was ever removed. An empty label
// matches any removal. Records by the listed bots are ignored.
func (h *History) WasUnlabeled(label string, bots ...string) bool {
	for _, e := range h.events {
		if matchesActor(e, bots) {
			continue
		}
		if e.Kind == Unlabeled && (label == "" || e.Label == label) {
			return true
		}
	}
	return false
}

// GetChangedLabels returns the sorted, deduplicated set of labels ever set or
// unset, optionally restricted to a prefix, ignoring the listed bots.
func (h *History) GetChangedLabels(prefix string, bots ...string) []string {
	seen := make(map[string]bool)
	for _, e := range h.events {
		if matchesActor(e, bots) {
			continue
		}
		if e.Kind != Labeled && e.Kind != Unlabeled {
			continue
		}
		if prefix != "" && !strings.HasPrefix(e.Label, prefix) {
			continue
		}
		seen[e.Label] = true
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// LastCommitDate returns the timestamp of the most recent committed record,
// zero when no commits were merged.
func (h *History) LastCommitDate() time.Time {
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Kind == Committed {
			return h.events[i].CreatedAt
		}
	}
	return time.Time{}
}

// LabelIsWaffling reports whether a label churned at least limit times across
// labeled and unlabeled records. Counts are memoized per History and reset by
// any merge.
func (h *History) LabelIsWaffling(label string, limit int) bool {
	if h.labelCounts == nil {
		h.labelCounts = make(map[string]int)
		for _, e := range h.events {
			if e.Label != "" {
				h.labelCounts[e.Label]++
			}
		}
	}
	return h.labelCounts[label] >= limit
}
