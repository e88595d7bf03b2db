package history

import (
	"testing"
)

// endToEndHistory is the canonical three-event log: a comment, a label
// application and its removal.
func endToEndHistory() *History {
	return NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "alice", Body: "hello there", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Labeled, Actor: "bob", Label: "bug", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Unlabeled, Actor: "bob", Label: "bug", CreatedAt: ts("2020-01-03T00:00:00Z")},
	})
}

func TestEndToEndQueries(t *testing.T) {
	h := endToEndHistory()

	if !h.HasCommented("alice") {
		t.Error("HasCommented(alice) = false, want true")
	}
	if h.HasCommented("bob") {
		t.Error("HasCommented(bob) = true, want false")
	}
	if !h.WasLabeled("bug") {
		t.Error("WasLabeled(bug) = false, want true")
	}
	if !h.LabelLastRemoved("bug").Equal(ts("2020-01-03T00:00:00Z")) {
		t.Errorf("LabelLastRemoved(bug) = %v, want t3", h.LabelLastRemoved("bug"))
	}

	labels := h.GetChangedLabels("")
	if len(labels) != 1 || labels[0] != "bug" {
		t.Errorf("GetChangedLabels() = %v, want [bug]", labels)
	}
}

func TestFindByActor(t *testing.T) {
	h := endToEndHistory()

	if got := h.FindByActor(Labeled, 1, "bob"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("FindByActor(labeled, bob) = %v", got)
	}
	if got := h.FindByActor(AnyKind, 0, "bob"); len(got) != 2 {
		t.Errorf("FindByActor(any, bob) returned %d events, want 2", len(got))
	}
	if got := h.FindByActor(AnyKind, 0, "alice", "bob"); len(got) != 3 {
		t.Errorf("FindByActor(any, alice+bob) returned %d events, want 3", len(got))
	}
	if got := h.FindByActor(Commented, 0, "nobody"); len(got) != 0 {
		t.Errorf("FindByActor for unknown actor = %v, want empty", got)
	}
}

func TestPredicates(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Mentioned, Actor: "alice", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Referenced, Actor: "bob", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Subscribed, Actor: "carol", CreatedAt: ts("2020-01-03T00:00:00Z")},
		{ID: "4", Kind: Assigned, Actor: "dave", CreatedAt: ts("2020-01-04T00:00:00Z")},
		{ID: "5", Kind: ReviewApproved, Actor: "erin", CreatedAt: ts("2020-01-05T00:00:00Z")},
	})

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"IsMentioned(alice)", h.IsMentioned("alice"), true},
		{"IsMentioned(bob)", h.IsMentioned("bob"), false},
		{"IsReferenced(bob)", h.IsReferenced("bob"), true},
		{"HasSubscribed(carol)", h.HasSubscribed("carol"), true},
		{"WasSubscribed(carol)", h.WasSubscribed("carol"), true},
		{"WasAssigned(dave)", h.WasAssigned("dave"), true},
		{"WasUnassigned(dave)", h.WasUnassigned("dave"), false},
		{"HasReviewed(erin)", h.HasReviewed("erin"), true},
		{"HasReviewed(alice)", h.HasReviewed("alice"), false},
		{"HasViewed(erin)", h.HasViewed("erin"), true},
		{"HasViewed(nobody)", h.HasViewed("nobody"), false},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLastQueries(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "alice", Body: "ping @bob please look", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "bob", Body: "looking", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Labeled, Actor: "alice", Label: "bug", CreatedAt: ts("2020-01-03T00:00:00Z")},
		{ID: "4", Kind: Commented, Actor: "alice", Body: "thanks @bob!", CreatedAt: ts("2020-01-04T00:00:00Z")},
	})

	if got := h.LastCommentor(); got != "alice" {
		t.Errorf("LastCommentor() = %q, want alice", got)
	}
	if got := h.LastComment("bob"); got != "looking" {
		t.Errorf("LastComment(bob) = %q", got)
	}
	if !h.LastCommentedAt("bob").Equal(ts("2020-01-02T00:00:00Z")) {
		t.Errorf("LastCommentedAt(bob) = %v", h.LastCommentedAt("bob"))
	}
	if !h.LastViewedAt("alice").Equal(ts("2020-01-04T00:00:00Z")) {
		t.Errorf("LastViewedAt(alice) = %v", h.LastViewedAt("alice"))
	}
	if !h.LastNotified("bob").Equal(ts("2020-01-04T00:00:00Z")) {
		t.Errorf("LastNotified(bob) = %v", h.LastNotified("bob"))
	}
	if !h.LastNotified("carol").IsZero() {
		t.Errorf("LastNotified(carol) = %v, want zero", h.LastNotified("carol"))
	}
	if !h.LabelLastApplied("bug").Equal(ts("2020-01-03T00:00:00Z")) {
		t.Errorf("LabelLastApplied(bug) = %v", h.LabelLastApplied("bug"))
	}
	if !h.LabelLastApplied("feature").IsZero() {
		t.Errorf("LabelLastApplied(feature) = %v, want zero", h.LabelLastApplied("feature"))
	}
}

func TestWasLabeled_BotFilter(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Labeled, Actor: "triagebot", Label: "needs_info", CreatedAt: ts("2020-01-01T00:00:00Z")},
	})

	if !h.WasLabeled("needs_info") {
		t.Error("WasLabeled without bot filter should see the bot's label")
	}
	if h.WasLabeled("needs_info", "triagebot") {
		t.Error("WasLabeled with bot filter should skip the bot's label")
	}
	if h.WasUnlabeled("") {
		t.Error("WasUnlabeled(any) = true on history without removals")
	}
}

func TestGetChangedLabels_PrefixAndBots(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Labeled, Actor: "alice", Label: "affects_2.4", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Labeled, Actor: "alice", Label: "bug", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Unlabeled, Actor: "alice", Label: "affects_2.4", CreatedAt: ts("2020-01-03T00:00:00Z")},
		{ID: "4", Kind: Labeled, Actor: "bot", Label: "affects_2.5", CreatedAt: ts("2020-01-04T00:00:00Z")},
	})

	got := h.GetChangedLabels("affects_")
	if len(got) != 2 || got[0] != "affects_2.4" || got[1] != "affects_2.5" {
		t.Errorf("GetChangedLabels(affects_) = %v", got)
	}

	got = h.GetChangedLabels("affects_", "bot")
	if len(got) != 1 || got[0] != "affects_2.4" {
		t.Errorf("GetChangedLabels(affects_, bot excluded) = %v", got)
	}
}

func TestGetUserComments(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "alice", Body: "Shipit when ready", CreatedAt: ts("2020-01-01T00:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "alice", Body: "still broken", CreatedAt: ts("2020-01-02T00:00:00Z")},
		{ID: "3", Kind: Commented, Actor: "bob", Body: "shipit", CreatedAt: ts("2020-01-03T00:00:00Z")},
	})

	if got := h.GetUserComments("alice"); len(got) != 2 {
		t.Errorf("GetUserComments(alice) = %v", got)
	}
	// Term matching is case-insensitive on the body side.
	if got := h.SearchUserComments("alice", "shipit"); len(got) != 1 {
		t.Errorf("SearchUserComments(alice, shipit) = %v", got)
	}
}

func TestGetUserCommentsGroupedBy(t *testing.T) {
	h := NewHistory([]Event{
		{ID: "1", Kind: Commented, Actor: "alice", CreatedAt: ts("2020-01-01T08:00:00Z")},
		{ID: "2", Kind: Commented, Actor: "alice", CreatedAt: ts("2020-01-01T20:00:00Z")},
		{ID: "3", Kind: Commented, Actor: "alice", CreatedAt: ts("2020-02-15T00:00:00Z")},
	})

	byDay := h.GetUserCommentsGroupedBy("alice", GroupByDay)
	if byDay["2020-1-1"] != 2 {
		t.Errorf("day bucket 2020-1-1 = %d, want 2", byDay["2020-1-1"])
	}

	byMonth := h.GetUserCommentsGroupedBy("alice", GroupByMonth)
	if byMonth["2020-1"] != 2 || byMonth["2020-2"] != 1 {
		t.Errorf("month buckets = %v", byMonth)
	}

	byYear := h.GetUserCommentsGroupedBy("alice", GroupByYear)
	if byYear["2020"] != 3 {
		t.Errorf("year bucket = %v", byYear)
	}

	if got := h.GetUserCommentsGroupedBy("alice", GroupBy("x")); len(got) != 0 {
		t.Errorf("unknown group key should yield empty result, got %v", got)
	}
}
