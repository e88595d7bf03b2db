package history

import (
	"testing"
)

func TestGetCommands_FromComments(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "alice", Body: "needs_info please", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "alice", Body: "!needs_info", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Commented, Actor: "alice", Body: "_From @olduser: needs_info", CreatedAt: ts("2020-01-03T00:00:00Z")},
		{ID: "4", Kind: Commented, Actor: "somebot", Body: "needs_info", CreatedAt: ts("2020-01-04T00:00:00Z")},
	})

	got := h.GetCommands("alice", []string{"needs_info"}, true)
	if len(got) != 1 || got[0] != "needs_info" {
		t.Errorf("GetCommands = %v, want [needs_info]", got)
	}

	// Bot records are skipped entirely even when the actor matches.
	got = h.GetCommands("somebot", []string{"needs_info"}, true, "somebot")
	if len(got) != 0 {
		t.Errorf("bot commands should be skipped, got %v", got)
	}
}

func TestGetCommands_FromLabels(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Labeled, Actor: "bob", Label: "needs_revision", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Unlabeled, Actor: "bob", Label: "needs_revision", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Labeled, Actor: "bob", Label: "unrelated", CreatedAt: ts("2020-01-03T00:00:00Z")},
	})

	got := h.GetCommands("bob", []string{"needs_revision"}, true)
	want := []string{"needs_revision", "!needs_revision"}
	if len(got) != len(want) {
		t.Fatalf("GetCommands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, got[i], want[i])
		}
	}

	// Labels are ignored when useLabels is off.
	if got := h.GetCommands("bob", []string{"needs_revision"}, false); len(got) != 0 {
		t.Errorf("useLabels=false should yield no label commands, got %v", got)
	}
}

func TestGetCommandEvents_ChronologicalWithTimes(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Labeled, Actor: "bob", Label: "shipit", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "bob", Body: "shipit", CreatedAt: ts("2020-01-01T00:00:00Z")},
	})

	got := h.GetCommandEvents("bob", []string{"shipit"}, true)
	if len(got) != 2 {
		t.Fatalf("GetCommandEvents = %v", got)
	}
	if !got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("command events not in chronological order")
	}
	if got[0].Command != "shipit" || got[1].Command != "shipit" {
		t.Errorf("unexpected commands: %v", got)
	}
}

const boilerplateBody = `Thanks for the report!

<!--- boilerplate: needs_info --->`

func TestBoilerplateComments(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "ansibot", Body: boilerplateBody, CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "ansibot", Body: "just a comment", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Commented, Actor: "ansibot", Body: boilerplateBody, CreatedAt: ts("2020-01-03T00:00:00Z")},
		{ID: "4", Kind: Commented, Actor: "alice", Body: boilerplateBody, CreatedAt: ts("2020-01-04T00:00:00Z")},
	})

	names := h.BoilerplateComments("ansibot")
	if len(names) != 2 || names[0] != "needs_info" {
		t.Errorf("BoilerplateComments = %v", names)
	}

	bodies := h.BoilerplateCommentsContent("ansibot", "needs_info")
	if len(bodies) != 2 {
		t.Errorf("BoilerplateCommentsContent = %d bodies, want 2", len(bodies))
	}
	if got := h.BoilerplateCommentsContent("ansibot", "other_template"); len(got) != 0 {
		t.Errorf("filter mismatch should yield nothing, got %v", got)
	}

	if !h.LastBoilerplateDate("needs_info", "ansibot").Equal(ts("2020-01-03T00:00:00Z")) {
		t.Errorf("LastBoilerplateDate = %v", h.LastBoilerplateDate("needs_info", "ansibot"))
	}
	if !h.LastBoilerplateDate("missing", "ansibot").IsZero() {
		t.Error("LastBoilerplateDate for unknown template should be zero")
	}
}
