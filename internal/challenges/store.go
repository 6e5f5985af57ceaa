// Package challenges owns the in-memory challenge tree and its edit
// lifecycle. A challenge moves Draft (NEW- id, never persisted) →
// Persisted (server id) → Deleted (removed, no tombstone).
//
// Tree nodes are addressed by stable node ids resolved through lookup,
// never by positional index, so a structural edit cannot invalidate an
// address someone else is holding. Every local mutation is a command
// applied under lock through a single dispatch step; network calls
// (delete, save, completion toggles) compose a dispatch with a gateway
// call and never mutate state on failure beyond what is documented.
package challenges

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/miwitv/fanclient/internal/model"
)

// Placeholder header values for a freshly added draft.
const (
	placeholderTitle       = "Neue Challenge"
	placeholderDescription = "Beschreibung"
	placeholderDate        = "DD.MM.YYYY"
)

// Draft node placeholder texts.
const (
	placeholderSection = "Neue Sektion"
	placeholderTask    = "Neue Aufgabe"
	placeholderSubtask = "Neue Subaufgabe"
)

// ErrNotFound is returned when an addressed node does not exist.
var ErrNotFound = errors.New("challenge-element nicht gefunden")

// ErrConfirmationRequired refuses to delete a persisted challenge
// without an explicit user confirmation. Deleting persisted data is the
// one destructive operation in the client, so the confirmation is part
// of the store contract, not a UI nicety.
var ErrConfirmationRequired = errors.New("löschen erfordert bestätigung")

// HeaderField addresses a single challenge header field.
type HeaderField string

const (
	FieldTitle        HeaderField = "title"
	FieldDescription  HeaderField = "description"
	FieldCreatedAt    HeaderField = "created_at"
	FieldChallengeEnd HeaderField = "challange_end"
)

// Gateway is the slice of the API client the tree store needs.
type Gateway interface {
	DeleteChallenge(ctx context.Context, id string) error
	UpdateTask(ctx context.Context, id string, completed bool) error
	UpdateSubtask(ctx context.Context, id string, completed bool) error
	SaveChallenge(ctx context.Context, ch model.Challenge) (string, error)
}

// mutation is a local tree edit. It runs under the store lock and
// returns the new challenge list.
type mutation func(challenges []model.Challenge) ([]model.Challenge, error)

// Store is the explicitly-owned container for the challenge tree. It is
// constructed once and passed by reference; there is no package-level
// instance.
type Store struct {
	gateway Gateway

	mu         sync.Mutex
	challenges []model.Challenge
}

// NewStore creates an empty tree store over the given gateway.
func NewStore(gw Gateway) *Store {
	return &Store{gateway: gw}
}

// dispatch applies a mutation under the store lock. All local tree
// edits funnel through here.
func (s *Store) dispatch(m mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := m(s.challenges)
	if err != nil {
		return err
	}
	s.challenges = next
	return nil
}

// Replace installs a fetched snapshot, dropping all local state.
func (s *Store) Replace(challenges []model.Challenge) {
	_ = s.dispatch(func([]model.Challenge) ([]model.Challenge, error) {
		return cloneChallenges(challenges), nil
	})
}

// Challenges returns a deep copy of the current tree.
func (s *Store) Challenges() []model.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChallenges(s.challenges)
}

// Challenge returns a deep copy of a single challenge.
func (s *Store) Challenge(id string) (model.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.challenges {
		if ch.ID == id {
			return cloneChallenge(ch), true
		}
	}
	return model.Challenge{}, false
}

// AddChallenge prepends a new draft with placeholder header fields and
// returns its draft id.
func (s *Store) AddChallenge() string {
	id := model.NewDraftID()
	_ = s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		draft := model.Challenge{
			ID: id,
			Header: model.ChallengeHeader{
				Title:        placeholderTitle,
				Description:  placeholderDescription,
				CreatedAt:    placeholderDate,
				ChallengeEnd: placeholderDate,
			},
		}
		return append([]model.Challenge{draft}, challenges...), nil
	})
	return id
}

// DeleteChallenge removes a challenge. A draft is removed locally with
// no network call. A persisted challenge requires confirmed == true,
// then a successful gateway delete; on failure the tree is unchanged.
func (s *Store) DeleteChallenge(ctx context.Context, id string, confirmed bool) error {
	if model.IsDraft(id) {
		return s.dispatch(removeChallenge(id))
	}

	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.gateway.DeleteChallenge(ctx, id); err != nil {
		return fmt.Errorf("löschen der challenge fehlgeschlagen: %w", err)
	}
	return s.dispatch(removeChallenge(id))
}

func removeChallenge(id string) mutation {
	return func(challenges []model.Challenge) ([]model.Challenge, error) {
		out := make([]model.Challenge, 0, len(challenges))
		found := false
		for _, ch := range challenges {
			if ch.ID == id {
				found = true
				continue
			}
			out = append(out, ch)
		}
		if !found {
			return nil, ErrNotFound
		}
		return out, nil
	}
}

// UpdateHeaderField replaces one header field in place. Purely local;
// persistence happens through Save.
func (s *Store) UpdateHeaderField(challengeID string, field HeaderField, value string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		ch := findChallenge(challenges, challengeID)
		if ch == nil {
			return nil, ErrNotFound
		}
		switch field {
		case FieldTitle:
			ch.Header.Title = value
		case FieldDescription:
			ch.Header.Description = value
		case FieldCreatedAt:
			ch.Header.CreatedAt = value
		case FieldChallengeEnd:
			ch.Header.ChallengeEnd = value
		default:
			return nil, fmt.Errorf("unbekanntes header-feld %q", field)
		}
		return challenges, nil
	})
}

// AddSection appends a draft section to a challenge and returns its id.
func (s *Store) AddSection(challengeID string) (string, error) {
	id := model.NewDraftID()
	err := s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		ch := findChallenge(challenges, challengeID)
		if ch == nil {
			return nil, ErrNotFound
		}
		ch.Sections = append(ch.Sections, model.Section{
			ID:    id,
			Title: placeholderSection,
		})
		return challenges, nil
	})
	return id, err
}

// UpdateSectionTitle renames a section in place.
func (s *Store) UpdateSectionTitle(challengeID, sectionID, title string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		section := findSection(challenges, challengeID, sectionID)
		if section == nil {
			return nil, ErrNotFound
		}
		section.Title = title
		return challenges, nil
	})
}

// DeleteSection removes a section and everything below it. Purely
// local, consistent with the edit-then-save model.
func (s *Store) DeleteSection(challengeID, sectionID string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		ch := findChallenge(challenges, challengeID)
		if ch == nil {
			return nil, ErrNotFound
		}
		for i, section := range ch.Sections {
			if section.ID == sectionID {
				ch.Sections = append(ch.Sections[:i], ch.Sections[i+1:]...)
				return challenges, nil
			}
		}
		return nil, ErrNotFound
	})
}

// AddTask appends a draft task to a section and returns its id.
func (s *Store) AddTask(challengeID, sectionID string) (string, error) {
	id := model.NewDraftID()
	err := s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		section := findSection(challenges, challengeID, sectionID)
		if section == nil {
			return nil, ErrNotFound
		}
		section.Items = append(section.Items, model.Task{
			ID:   id,
			Text: placeholderTask,
		})
		return challenges, nil
	})
	return id, err
}

// UpdateTaskText replaces a task's text in place.
func (s *Store) UpdateTaskText(challengeID, sectionID, taskID, text string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		task := findTask(challenges, challengeID, sectionID, taskID)
		if task == nil {
			return nil, ErrNotFound
		}
		task.Text = text
		return challenges, nil
	})
}

// DeleteTask removes a task and its subtasks. Purely local.
func (s *Store) DeleteTask(challengeID, sectionID, taskID string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		section := findSection(challenges, challengeID, sectionID)
		if section == nil {
			return nil, ErrNotFound
		}
		for i, item := range section.Items {
			if item.ID == taskID {
				section.Items = append(section.Items[:i], section.Items[i+1:]...)
				return challenges, nil
			}
		}
		return nil, ErrNotFound
	})
}

// AddSubtask appends a draft subtask to a task and returns its id.
func (s *Store) AddSubtask(challengeID, sectionID, taskID string) (string, error) {
	id := model.NewDraftID()
	err := s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		task := findTask(challenges, challengeID, sectionID, taskID)
		if task == nil {
			return nil, ErrNotFound
		}
		task.Subchallenges = append(task.Subchallenges, model.Subtask{
			ID:   id,
			Text: placeholderSubtask,
		})
		return challenges, nil
	})
	return id, err
}

// UpdateSubtaskText replaces a subtask's text in place.
func (s *Store) UpdateSubtaskText(challengeID, sectionID, taskID, subtaskID, text string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		sub := findSubtask(challenges, challengeID, sectionID, taskID, subtaskID)
		if sub == nil {
			return nil, ErrNotFound
		}
		sub.Text = text
		return challenges, nil
	})
}

// DeleteSubtask removes a subtask. Purely local.
func (s *Store) DeleteSubtask(challengeID, sectionID, taskID, subtaskID string) error {
	return s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		task := findTask(challenges, challengeID, sectionID, taskID)
		if task == nil {
			return nil, ErrNotFound
		}
		for i, sub := range task.Subchallenges {
			if sub.ID == subtaskID {
				task.Subchallenges = append(
					task.Subchallenges[:i], task.Subchallenges[i+1:]...,
				)
				return challenges, nil
			}
		}
		return nil, ErrNotFound
	})
}

// ToggleTask flips a task's completion. This is the single
// authoritative toggle path: the flip applies locally first, and for a
// persisted task the gateway confirmation follows. A failed
// confirmation flips the flag back and reports the error. Draft tasks
// never reach the network.
func (s *Store) ToggleTask(ctx context.Context, challengeID, sectionID, taskID string) error {
	var completed bool
	err := s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		task := findTask(challenges, challengeID, sectionID, taskID)
		if task == nil {
			return nil, ErrNotFound
		}
		task.Completed = !task.Completed
		completed = task.Completed
		return challenges, nil
	})
	if err != nil {
		return err
	}

	if model.IsDraft(taskID) {
		return nil
	}

	if err := s.gateway.UpdateTask(ctx, taskID, completed); err != nil {
		_ = s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
			if task := findTask(challenges, challengeID, sectionID, taskID); task != nil {
				task.Completed = !completed
			}
			return challenges, nil
		})
		return fmt.Errorf("aufgabe konnte nicht gespeichert werden: %w", err)
	}
	return nil
}

// ToggleSubtask flips a subtask's completion with the same contract as
// ToggleTask.
func (s *Store) ToggleSubtask(ctx context.Context, challengeID, sectionID, taskID, subtaskID string) error {
	var completed bool
	err := s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
		sub := findSubtask(challenges, challengeID, sectionID, taskID, subtaskID)
		if sub == nil {
			return nil, ErrNotFound
		}
		sub.Completed = !sub.Completed
		completed = sub.Completed
		return challenges, nil
	})
	if err != nil {
		return err
	}

	if model.IsDraft(subtaskID) {
		return nil
	}

	if err := s.gateway.UpdateSubtask(ctx, subtaskID, completed); err != nil {
		_ = s.dispatch(func(challenges []model.Challenge) ([]model.Challenge, error) {
			if sub := findSubtask(challenges, challengeID, sectionID, taskID, subtaskID); sub != nil {
				sub.Completed = !completed
			}
			return challenges, nil
		})
		return fmt.Errorf("subaufgabe konnte nicht gespeichert werden: %w", err)
	}
	return nil
}

// Save bulk-saves a challenge through the gateway; create vs update is
// chosen by the draft prefix inside the gateway. The store does not
// rewrite a draft id from the response; after a successful create the
// caller refetches the challenge list to pick up server-issued ids.
// Returns the server's acknowledgement message.
func (s *Store) Save(ctx context.Context, challengeID string) (string, error) {
	ch, ok := s.Challenge(challengeID)
	if !ok {
		return "", ErrNotFound
	}
	return s.gateway.SaveChallenge(ctx, ch)
}
