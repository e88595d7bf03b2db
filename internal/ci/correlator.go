// Package ci associates ci_verified label applications with the CI runs that
// produced them.
package ci

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hulquest/ansibullbot/internal/github"
	"github.com/hulquest/ansibullbot/internal/history"
)

// VerifiedLabel marks that a human confirmed a CI run's result.
const VerifiedLabel = "ci_verified"

// Status is one commit-status entry from the hosting platform. The run id is
// the last path segment of the target URL.
type Status struct {
	ID        int64  `json:"id"`
	State     string `json:"state"`
	TargetURL string `json:"target_url"`
	UpdatedAt string `json:"updated_at"`
}

// RunData is what the CI service knows about a single run.
type RunData struct {
	TriggeredBy string
	CommitSHA   string
}

// RunService is the CI data collaborator. GetRunData returns nil (with no
// error) when the run id cannot be resolved, which happens when older runs
// roll out of the CI service's retention window.
type RunService interface {
	GetRunData(runID string) (*RunData, error)
}

// Correlator owns a private copy of an issue's history joined with ci_run
// records, so mutating it never touches the caller's log.
type Correlator struct {
	history *history.History
}

// NewCorrelator joins the issue history with the CI status list. Statuses
// whose target URLs do not resolve to run data are skipped; sometimes the
// target urls are simply invalid.
func NewCorrelator(h *history.History, svc RunService, statuses []Status) (*Correlator, error) {
	joined := history.NewHistory(append([]history.Event(nil), h.Events()...))

	var runs []history.Event
	for _, status := range statuses {
		parts := strings.Split(status.TargetURL, "/")
		runID := parts[len(parts)-1]

		rd, err := svc.GetRunData(runID)
		if err != nil {
			return nil, err
		}
		if rd == nil {
			continue
		}

		created, err := github.ParseTime(status.UpdatedAt)
		if err != nil {
			log.Warn().Str("updated_at", status.UpdatedAt).Msg("Skipping CI status with bad timestamp")
			continue
		}

		runs = append(runs, history.Event{
			ID:        runID,
			Kind:      history.CIRun,
			Actor:     rd.TriggeredBy,
			CreatedAt: created,
			State:     status.State,
			RunID:     runID,
			StatusID:  formatStatusID(status.ID),
			SHA:       rd.CommitSHA,
		})
	}

	joined.AppendEvents(runs)
	return &Correlator{history: joined}, nil
}

func formatStatusID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// History returns the joined log including ci_run records.
func (c *Correlator) History() *history.History {
	return c.history
}

// LastVerifiedRun finds the run whose timestamp most closely precedes the
// most recent ci_verified label application. The second return is false when
// no ci_verified label event exists or no run precedes it; CI status lists
// roll over, so the label may belong to a run that can no longer be recalled.
func (c *Correlator) LastVerifiedRun() (history.Event, bool) {
	verifiedAt := c.history.LabelLastApplied(VerifiedLabel)
	if verifiedAt.IsZero() {
		return history.Event{}, false
	}

	var run history.Event
	found := false
	for _, e := range c.history.Events() {
		if e.Kind != history.CIRun {
			continue
		}
		if !e.CreatedAt.After(verifiedAt) {
			run = e
			found = true
		}
	}
	return run, found
}
