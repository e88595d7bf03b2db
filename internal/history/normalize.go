package history

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hulquest/ansibullbot/internal/github"
)

// eventFromCache looks up a prior record by id. Timeline events are the
// expensive source to re-derive per-field, so a cached record wins over
// re-derivation whenever one exists.
func eventFromCache(cache *Entry, id string) (Event, bool) {
	if cache == nil {
		return Event{}, false
	}
	for _, e := range cache.History {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// normalizeTimelineEvent maps one raw timeline item into a record, reusing
// the cached copy when available. Unknown raw kinds pass through unchanged so
// the log stays complete.
func normalizeTimelineEvent(raw github.TimelineEvent, cache *Entry) Event {
	id := strconv.FormatInt(raw.ID, 10)
	if cached, ok := eventFromCache(cache, id); ok {
		return cached
	}

	e := Event{
		ID:        id,
		Kind:      Kind(raw.Event),
		CreatedAt: raw.CreatedAt,
	}
	if raw.Actor != nil {
		e.Actor = raw.Actor.Login
	}

	switch e.Kind {
	case Labeled, Unlabeled:
		// Absent label names are recorded as empty rather than failing.
		if raw.Label != nil {
			e.Label = raw.Label.Name
		}
	case Referenced:
		e.CommitID = raw.CommitID
	}

	return e
}

// normalizeComment maps a comment into a record. Comments are always
// commented regardless of any other classification, and are cheap enough to
// re-derive that they never use the cache.
func normalizeComment(c github.Comment) Event {
	e := Event{
		ID:        strconv.FormatInt(c.ID, 10),
		Kind:      Commented,
		CreatedAt: c.CreatedAt,
		Body:      c.Body,
	}
	if c.User != nil {
		e.Actor = c.User.Login
	}
	return e
}

// normalizeReaction maps a reaction into a record. The source delivers
// timestamps as text; a payload without an id or with an unparseable
// timestamp is malformed and skipped.
func normalizeReaction(r github.Reaction) (Event, bool) {
	if r.ID == 0 {
		log.Warn().Str("content", r.Content).Msg("Skipping malformed reaction payload")
		return Event{}, false
	}

	created, err := github.ParseTime(r.CreatedAt)
	if err != nil {
		log.Warn().Err(err).Str("created_at", r.CreatedAt).Msg("Skipping reaction with bad timestamp")
		return Event{}, false
	}

	e := Event{
		ID:        strconv.FormatInt(r.ID, 10),
		Kind:      Reacted,
		CreatedAt: created,
		Content:   r.Content,
	}
	if r.User != nil {
		e.Actor = r.User.Login
	}
	return e, true
}
