package history

import (
	"sort"
	"strings"
	"time"
)

// crossReferenceMarker opens comments that were copied in from another issue;
// commands in those bodies belong to the original thread, not this one.
const crossReferenceMarker = "_From @"

// TimedCommand is a command token with the time it was issued.
type TimedCommand struct {
	CreatedAt time.Time
	Command   string
}

// GetCommands extracts command tokens issued by a user, in chronological
// order. A comment carries a token when the literal text appears in the body,
// its negated form (!token) does not, and the body is not a cross-reference
// copy. With useLabels set, label applications count as the label name and
// removals as the negated name. Records by the listed bots are skipped.
func (h *History) GetCommands(username string, commandKeys []string, useLabels bool, botNames ...string) []string {
	timed := h.GetCommandEvents(username, commandKeys, useLabels, botNames...)
	commands := make([]string, 0, len(timed))
	for _, tc := range timed {
		commands = append(commands, tc.Command)
	}
	return commands
}

// GetCommandEvents is GetCommands with the timestamp of each token.
func (h *History) GetCommandEvents(username string, commandKeys []string, useLabels bool, botNames ...string) []TimedCommand {
	events := h.FindByActor(Commented, 0, username)
	events = append(events, h.FindByActor(Labeled, 0, username)...)
	events = append(events, h.FindByActor(Unlabeled, 0, username)...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	keySet := make(map[string]bool, len(commandKeys))
	for _, k := range commandKeys {
		keySet[k] = true
	}

	var commands []TimedCommand
	for _, e := range events {
		if matchesActor(e, botNames) {
			continue
		}
		switch e.Kind {
		case Commented:
			if strings.HasPrefix(e.Body, crossReferenceMarker) {
				continue
			}
			for _, key := range commandKeys {
				if strings.Contains(e.Body, key) && !strings.Contains(e.Body, "!"+key) {
					commands = append(commands, TimedCommand{CreatedAt: e.CreatedAt, Command: key})
				}
			}
		case Labeled:
			if useLabels && keySet[e.Label] {
				commands = append(commands, TimedCommand{CreatedAt: e.CreatedAt, Command: e.Label})
			}
		case Unlabeled:
			if useLabels && keySet[e.Label] {
				commands = append(commands, TimedCommand{CreatedAt: e.CreatedAt, Command: "!" + e.Label})
			}
		}
	}
	return commands
}

// boilerplateMarker identifies bot comments generated from a canned template.
// The template name is the third whitespace-separated token of the first
// marker line, e.g. "<!--- boilerplate: needs_info --->".
const boilerplateMarker = "boilerplate:"

func boilerplateName(body string) (string, bool) {
	if !strings.Contains(body, boilerplateMarker) {
		return "", false
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, boilerplateMarker) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return "", false
		}
		return fields[2], true
	}
	return "", false
}

// BoilerplateComments returns the template names of the bot's boilerplate
// comments in chronological order.
func (h *History) BoilerplateComments(botName string) []string {
	var names []string
	for _, e := range h.FindByActor(Commented, 0, botName) {
		if name, ok := boilerplateName(e.Body); ok {
			names = append(names, name)
		}
	}
	return names
}

// BoilerplateCommentsContent returns the full bodies of the bot's boilerplate
// comments, restricted to one template name when filter is non-empty.
func (h *History) BoilerplateCommentsContent(botName, filter string) []string {
	var bodies []string
	for _, e := range h.FindByActor(Commented, 0, botName) {
		name, ok := boilerplateName(e.Body)
		if !ok {
			continue
		}
		if filter == "" || name == filter {
			bodies = append(bodies, e.Body)
		}
	}
	return bodies
}

// LastBoilerplateDate returns when the bot last posted the named template,
// zero if it never did.
func (h *History) LastBoilerplateDate(name, botName string) time.Time {
	var last time.Time
	for _, e := range h.FindByActor(Commented, 0, botName) {
		if n, ok := boilerplateName(e.Body); ok && n == name {
			last = e.CreatedAt
		}
	}
	return last
}
