package history

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hulquest/ansibullbot/internal/github"
)

// Issue is the slice of the issue/pull-request collaborator this package
// consumes. github.Issue satisfies it; tests supply fixtures.
type Issue interface {
	Number() int
	RepoPath() string
	UpdatedAt() time.Time
	Events() ([]github.TimelineEvent, error)
	Comments() ([]github.Comment, error)
	Reactions() ([]github.Reaction, error)
}

// Options controls how a wrapper builds its history.
type Options struct {
	// UseCache enables the per-issue disk snapshot. When disabled the
	// history is always rebuilt from the raw sources.
	UseCache bool
	// CacheDir is the snapshot root. Required when UseCache is set.
	CacheDir string
	// ExcludeUsers removes every record by the listed actors from the
	// final history.
	ExcludeUsers []string
}

// Wrapper joins the events, comments and reactions of one issue into a
// chronological log that supports point queries without manual iteration.
type Wrapper struct {
	issue   Issue
	store   *Store
	history *History
}

// New builds the history for an issue. Building is expensive and slow, so
// with caching enabled a fresh snapshot (cached update time >= the issue's
// current update time) is reused verbatim; anything else triggers a rebuild
// that is persisted before returning.
func New(issue Issue, opts Options) (*Wrapper, error) {
	w := &Wrapper{issue: issue}

	if opts.UseCache {
		store, err := NewStore(opts.CacheDir, issue.RepoPath(), issue.Number())
		if err != nil {
			return nil, err
		}
		w.store = store
	}

	var events []Event
	if !opts.UseCache {
		built, err := w.process()
		if err != nil {
			return nil, err
		}
		events = built
	} else {
		cache := w.store.Load()
		switch {
		case cache == nil:
			log.Info().Int("issue", issue.Number()).Msg("Empty history cache, rebuilding")
			built, err := w.process()
			if err != nil {
				return nil, err
			}
			events = built
			if err := w.save(events); err != nil {
				return nil, err
			}
		case !cache.UpdatedAt.Before(issue.UpdatedAt()):
			log.Debug().Int("issue", issue.Number()).Msg("Using cached history")
			events = cache.History
		default:
			log.Info().Int("issue", issue.Number()).Msg("History cache out of date, rebuilding")
			built, err := w.process()
			if err != nil {
				return nil, err
			}
			events = built
			if err := w.save(events); err != nil {
				return nil, err
			}
		}
	}

	w.history = NewHistory(events)
	w.history.filterActors(opts.ExcludeUsers)
	return w, nil
}

// History exposes the merged log for queries and late merges.
func (w *Wrapper) History() *History {
	return w.history
}

// process merges the three baseline sources into chronological order.
// Timeline events reuse cached records by id; comments and reactions are
// complete, cheap lists and are always normalized fresh.
func (w *Wrapper) process() ([]Event, error) {
	var cache *Entry
	if w.store != nil {
		cache = w.store.Load()
	}

	rawEvents, err := w.issue.Events()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	comments, err := w.issue.Comments()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	reactions, err := w.issue.Reactions()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reactions: %w", err)
	}

	processed := make([]Event, 0, len(rawEvents)+len(comments)+len(reactions))
	for _, raw := range rawEvents {
		processed = append(processed, normalizeTimelineEvent(raw, cache))
	}
	for _, c := range comments {
		processed = append(processed, normalizeComment(c))
	}
	for _, r := range reactions {
		if e, ok := normalizeReaction(r); ok {
			processed = append(processed, e)
		}
	}

	return processed, nil
}

// save replaces the persisted snapshot wholesale, keyed by the issue's
// current update time. An unwritable cache is a configuration error.
func (w *Wrapper) save(events []Event) error {
	return w.store.Save(&Entry{
		UpdatedAt: w.issue.UpdatedAt(),
		History:   events,
	})
}
