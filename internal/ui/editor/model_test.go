package editor

import (
	"errors"
	"testing"

	chstore "github.com/miwitv/fanclient/internal/challenges"
	"github.com/miwitv/fanclient/internal/keys"
	"github.com/miwitv/fanclient/internal/model"
)

func newTestEditor() Model {
	st := chstore.NewStore(nil)
	st.Replace([]model.Challenge{
		{
			ID:     "ch-1",
			Header: model.ChallengeHeader{Title: "Winter Challenge"},
			Sections: []model.Section{
				{
					ID:    "sec-1",
					Title: "Woche 1",
					Items: []model.Task{{ID: "task-1", Text: "Level 10 erreichen"}},
				},
			},
		},
	})
	m := New(st, keys.DefaultKeyMap(), 80, 24)
	m.Open("ch-1")
	return m
}

// A background refresh can replace the tree under the cursor, so edits
// against vanished nodes must report an error instead of no-opping.
func TestAddChildOnVanishedNodeReturnsError(t *testing.T) {
	m := newTestEditor()

	err := m.addChild(node{kind: nodeSection, sectionID: "nope"})
	if !errors.Is(err, chstore.ErrNotFound) {
		t.Fatalf("addChild on missing section: got %v, want ErrNotFound", err)
	}
}

func TestDeleteOnVanishedNodeReturnsError(t *testing.T) {
	m := newTestEditor()

	err := m.deleteNode(node{kind: nodeTask, sectionID: "sec-1", taskID: "nope"})
	if !errors.Is(err, chstore.ErrNotFound) {
		t.Fatalf("deleteNode on missing task: got %v, want ErrNotFound", err)
	}
}

func TestEditFailedCarriesError(t *testing.T) {
	m := newTestEditor()

	msg := m.editFailed(chstore.ErrNotFound)()
	saved, ok := msg.(SavedMsg)
	if !ok {
		t.Fatalf("editFailed produced %T, want SavedMsg", msg)
	}
	if saved.ChallengeID != "ch-1" {
		t.Fatalf("ChallengeID = %q, want %q", saved.ChallengeID, "ch-1")
	}
	if !errors.Is(saved.Err, chstore.ErrNotFound) {
		t.Fatalf("Err = %v, want ErrNotFound", saved.Err)
	}
}
