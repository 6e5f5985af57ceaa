package challenges

import (
	"context"
	"errors"
	"testing"

	"github.com/miwitv/fanclient/internal/model"
)

// fakeGateway counts calls and can fail selectively.
type fakeGateway struct {
	deleteCalls  int
	taskCalls    int
	subtaskCalls int
	saveCalls    int

	deleteErr error
	taskErr   error
	saveMsg   string
	saveErr   error

	lastSaved model.Challenge
}

func (g *fakeGateway) DeleteChallenge(context.Context, string) error {
	g.deleteCalls++
	return g.deleteErr
}

func (g *fakeGateway) UpdateTask(context.Context, string, bool) error {
	g.taskCalls++
	return g.taskErr
}

func (g *fakeGateway) UpdateSubtask(context.Context, string, bool) error {
	g.subtaskCalls++
	return g.taskErr
}

func (g *fakeGateway) SaveChallenge(_ context.Context, ch model.Challenge) (string, error) {
	g.saveCalls++
	g.lastSaved = ch
	return g.saveMsg, g.saveErr
}

func seededStore(gw Gateway) *Store {
	s := NewStore(gw)
	s.Replace([]model.Challenge{
		{
			ID: "ch-1",
			Header: model.ChallengeHeader{
				Title:     "Winter Challenge",
				CreatedAt: "2026-01-10",
			},
			Sections: []model.Section{
				{
					ID:    "sec-1",
					Title: "Woche 1",
					Items: []model.Task{
						{
							ID:   "task-1",
							Text: "Level 10 erreichen",
							Subchallenges: []model.Subtask{
								{ID: "sub-1", Text: "Tutorial abschließen"},
							},
						},
					},
				},
			},
		},
	})
	return s
}

func TestAddChallengePrependsDraft(t *testing.T) {
	s := seededStore(&fakeGateway{})

	id := s.AddChallenge()
	if !model.IsDraft(id) {
		t.Fatalf("AddChallenge must return a draft id, got %s", id)
	}

	challenges := s.Challenges()
	if len(challenges) != 2 || challenges[0].ID != id {
		t.Fatalf("draft must be prepended, got %+v", challenges)
	}
	if challenges[0].Header.Title != "Neue Challenge" {
		t.Fatalf("draft title: got %q", challenges[0].Header.Title)
	}
	if challenges[0].Header.ChallengeEnd != "DD.MM.YYYY" {
		t.Fatalf("draft end date placeholder: got %q", challenges[0].Header.ChallengeEnd)
	}
}

func TestDeleteDraftSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{}
	s := seededStore(gw)
	id := s.AddChallenge()

	if err := s.DeleteChallenge(context.Background(), id, false); err != nil {
		t.Fatalf("deleting a draft: %v", err)
	}
	if gw.deleteCalls != 0 {
		t.Fatalf("draft deletion must not reach the gateway")
	}
	if _, ok := s.Challenge(id); ok {
		t.Fatalf("draft must be gone")
	}
}

func TestDeletePersistedRequiresConfirmation(t *testing.T) {
	gw := &fakeGateway{}
	s := seededStore(gw)

	err := s.DeleteChallenge(context.Background(), "ch-1", false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if gw.deleteCalls != 0 {
		t.Fatalf("unconfirmed deletion must not reach the gateway")
	}

	if err := s.DeleteChallenge(context.Background(), "ch-1", true); err != nil {
		t.Fatalf("confirmed deletion: %v", err)
	}
	if gw.deleteCalls != 1 {
		t.Fatalf("confirmed deletion must call the gateway once, got %d", gw.deleteCalls)
	}
	if _, ok := s.Challenge("ch-1"); ok {
		t.Fatalf("deleted challenge must be gone")
	}
}

func TestDeletePersistedKeepsTreeOnGatewayFailure(t *testing.T) {
	gw := &fakeGateway{deleteErr: errors.New("serverfehler")}
	s := seededStore(gw)

	if err := s.DeleteChallenge(context.Background(), "ch-1", true); err == nil {
		t.Fatalf("expected the gateway error to propagate")
	}
	if _, ok := s.Challenge("ch-1"); !ok {
		t.Fatalf("failed deletion must leave the challenge in place")
	}
}

func TestStructuralEditsById(t *testing.T) {
	s := seededStore(&fakeGateway{})

	secID, err := s.AddSection("ch-1")
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	taskID, err := s.AddTask("ch-1", secID)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	subID, err := s.AddSubtask("ch-1", secID, taskID)
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}

	if err := s.UpdateSectionTitle("ch-1", secID, "Woche 2"); err != nil {
		t.Fatalf("UpdateSectionTitle: %v", err)
	}
	if err := s.UpdateTaskText("ch-1", secID, taskID, "Boss besiegen"); err != nil {
		t.Fatalf("UpdateTaskText: %v", err)
	}
	if err := s.UpdateSubtaskText("ch-1", secID, taskID, subID, "Ohne Schaden"); err != nil {
		t.Fatalf("UpdateSubtaskText: %v", err)
	}

	ch, _ := s.Challenge("ch-1")
	sec := ch.Sections[1]
	if sec.Title != "Woche 2" {
		t.Fatalf("section title: got %q", sec.Title)
	}
	if sec.Items[0].Text != "Boss besiegen" {
		t.Fatalf("task text: got %q", sec.Items[0].Text)
	}
	if sec.Items[0].Subchallenges[0].Text != "Ohne Schaden" {
		t.Fatalf("subtask text: got %q", sec.Items[0].Subchallenges[0].Text)
	}

	// Deleting the first section must not invalidate the ids above.
	if err := s.DeleteSection("ch-1", "sec-1"); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	if err := s.UpdateTaskText("ch-1", secID, taskID, "immer noch da"); err != nil {
		t.Fatalf("id address must survive a structural edit: %v", err)
	}
}

func TestAddThenDeleteTaskRestoresSection(t *testing.T) {
	s := seededStore(&fakeGateway{})

	before, _ := s.Challenge("ch-1")

	taskID, err := s.AddTask("ch-1", "sec-1")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.DeleteTask("ch-1", "sec-1", taskID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	after, _ := s.Challenge("ch-1")
	if len(after.Sections[0].Items) != len(before.Sections[0].Items) {
		t.Fatalf("item count: got %d, want %d", len(after.Sections[0].Items), len(before.Sections[0].Items))
	}
	for i, item := range after.Sections[0].Items {
		if item.ID != before.Sections[0].Items[i].ID {
			t.Fatalf("item %d: got id %q, want %q", i, item.ID, before.Sections[0].Items[i].ID)
		}
	}
}

func TestEditsOnMissingNodes(t *testing.T) {
	s := seededStore(&fakeGateway{})

	if err := s.UpdateSectionTitle("ch-1", "nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTask("ch-1", "sec-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.AddTask("nope", "sec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleTaskConfirmsThroughGateway(t *testing.T) {
	gw := &fakeGateway{}
	s := seededStore(gw)

	if err := s.ToggleTask(context.Background(), "ch-1", "sec-1", "task-1"); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if gw.taskCalls != 1 {
		t.Fatalf("persisted toggle must confirm through the gateway")
	}

	ch, _ := s.Challenge("ch-1")
	if !ch.Sections[0].Items[0].Completed {
		t.Fatalf("task must be completed after the toggle")
	}
}

func TestToggleTaskFlipsBackOnFailure(t *testing.T) {
	gw := &fakeGateway{taskErr: errors.New("serverfehler")}
	s := seededStore(gw)

	if err := s.ToggleTask(context.Background(), "ch-1", "sec-1", "task-1"); err == nil {
		t.Fatalf("expected the gateway error to propagate")
	}

	ch, _ := s.Challenge("ch-1")
	if ch.Sections[0].Items[0].Completed {
		t.Fatalf("failed confirmation must flip the flag back")
	}
}

func TestToggleDraftNodesStayLocal(t *testing.T) {
	gw := &fakeGateway{}
	s := seededStore(gw)

	taskID, err := s.AddTask("ch-1", "sec-1")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.ToggleTask(context.Background(), "ch-1", "sec-1", taskID); err != nil {
		t.Fatalf("ToggleTask on draft: %v", err)
	}
	if gw.taskCalls != 0 {
		t.Fatalf("draft toggle must not reach the gateway")
	}

	subID, err := s.AddSubtask("ch-1", "sec-1", "task-1")
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	if err := s.ToggleSubtask(context.Background(), "ch-1", "sec-1", "task-1", subID); err != nil {
		t.Fatalf("ToggleSubtask on draft: %v", err)
	}
	if gw.subtaskCalls != 0 {
		t.Fatalf("draft subtask toggle must not reach the gateway")
	}
}

func TestSavePassesTreeToGateway(t *testing.T) {
	gw := &fakeGateway{saveMsg: "Challenge gespeichert"}
	s := seededStore(gw)

	if err := s.UpdateHeaderField("ch-1", FieldTitle, "Frühlings-Challenge"); err != nil {
		t.Fatalf("UpdateHeaderField: %v", err)
	}

	msg, err := s.Save(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if msg != "Challenge gespeichert" {
		t.Fatalf("ack message: got %q", msg)
	}
	if gw.lastSaved.Header.Title != "Frühlings-Challenge" {
		t.Fatalf("gateway must receive the edited tree, got %q", gw.lastSaved.Header.Title)
	}
}

func TestChallengesReturnsIsolatedCopies(t *testing.T) {
	s := seededStore(&fakeGateway{})

	snapshot := s.Challenges()
	snapshot[0].Sections[0].Items[0].Text = "manipuliert"

	ch, _ := s.Challenge("ch-1")
	if ch.Sections[0].Items[0].Text != "Level 10 erreichen" {
		t.Fatalf("mutating a snapshot must not affect the store")
	}
}
