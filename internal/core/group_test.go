package core

import (
	"fmt"
	"testing"
)

func TestCreateGroupUnionsCreator(t *testing.T) {
	r := NewGroupRegistry()

	group := r.Create(1, []int64{2, 3, 2}, "squad")
	if len(group.Participants) != 3 {
		t.Fatalf("expected {1,2,3}, got %v", group.Participants)
	}
	if !group.HasParticipant(1) {
		t.Fatal("creator must always be a participant")
	}
	if group.GroupID == "" {
		t.Fatal("group id must be generated")
	}

	other := r.Create(1, []int64{2}, "")
	if other.GroupID == group.GroupID {
		t.Fatal("group ids must be unique")
	}
}

func TestGroupMessageCapEvictsOldest(t *testing.T) {
	r := NewGroupRegistry()
	group := r.Create(1, []int64{2}, "")

	for i := 0; i < 60; i++ {
		if _, ok := r.AddMessage(group.GroupID, 1, "one", fmt.Sprintf("m%d", i)); !ok {
			t.Fatalf("append %d failed", i)
		}
	}

	live := r.Get(group.GroupID)
	if len(live.Messages) != GroupHistoryLimit {
		t.Fatalf("expected %d messages, got %d", GroupHistoryLimit, len(live.Messages))
	}
	if live.Messages[0].Content != "m10" || live.Messages[len(live.Messages)-1].Content != "m59" {
		t.Fatalf("oldest must be evicted first: %q..%q", live.Messages[0].Content, live.Messages[len(live.Messages)-1].Content)
	}
}

func TestAddMessageUnknownGroup(t *testing.T) {
	r := NewGroupRegistry()
	if _, ok := r.AddMessage("missing", 1, "one", "hi"); ok {
		t.Fatal("unknown group must report not-found")
	}
}

func TestUserGroupsListsMemberships(t *testing.T) {
	r := NewGroupRegistry()

	first := r.Create(1, []int64{2}, "a")
	r.Create(3, []int64{4}, "b")
	second := r.Create(2, []int64{1}, "c")

	groups := r.UserGroups(1)
	if len(groups) != 2 {
		t.Fatalf("expected two memberships, got %+v", groups)
	}
	ids := map[string]bool{groups[0].GroupID: true, groups[1].GroupID: true}
	if !ids[first.GroupID] || !ids[second.GroupID] {
		t.Fatalf("wrong memberships: %+v", groups)
	}

	if got := r.UserGroups(99); len(got) != 0 {
		t.Fatalf("expected no memberships, got %+v", got)
	}
}
