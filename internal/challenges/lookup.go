package challenges

import "github.com/miwitv/fanclient/internal/model"

// The find* helpers resolve id paths to mutable nodes. They must only
// be called while holding the store lock.

func findChallenge(challenges []model.Challenge, id string) *model.Challenge {
	for i := range challenges {
		if challenges[i].ID == id {
			return &challenges[i]
		}
	}
	return nil
}

func findSection(challenges []model.Challenge, challengeID, sectionID string) *model.Section {
	ch := findChallenge(challenges, challengeID)
	if ch == nil {
		return nil
	}
	for i := range ch.Sections {
		if ch.Sections[i].ID == sectionID {
			return &ch.Sections[i]
		}
	}
	return nil
}

func findTask(challenges []model.Challenge, challengeID, sectionID, taskID string) *model.Task {
	section := findSection(challenges, challengeID, sectionID)
	if section == nil {
		return nil
	}
	for i := range section.Items {
		if section.Items[i].ID == taskID {
			return &section.Items[i]
		}
	}
	return nil
}

func findSubtask(challenges []model.Challenge, challengeID, sectionID, taskID, subtaskID string) *model.Subtask {
	task := findTask(challenges, challengeID, sectionID, taskID)
	if task == nil {
		return nil
	}
	for i := range task.Subchallenges {
		if task.Subchallenges[i].ID == subtaskID {
			return &task.Subchallenges[i]
		}
	}
	return nil
}

// cloneChallenge deep-copies a challenge so snapshots handed to the UI
// never alias the store's nested slices.
func cloneChallenge(ch model.Challenge) model.Challenge {
	out := ch
	out.Sections = make([]model.Section, len(ch.Sections))
	for i, section := range ch.Sections {
		cloned := section
		cloned.Items = make([]model.Task, len(section.Items))
		for j, item := range section.Items {
			task := item
			task.Subchallenges = append([]model.Subtask(nil), item.Subchallenges...)
			cloned.Items[j] = task
		}
		out.Sections[i] = cloned
	}
	return out
}

func cloneChallenges(challenges []model.Challenge) []model.Challenge {
	out := make([]model.Challenge, len(challenges))
	for i, ch := range challenges {
		out[i] = cloneChallenge(ch)
	}
	return out
}
