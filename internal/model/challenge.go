package model

import (
	"fmt"
	"strings"
	"time"
)

// DraftIDPrefix marks an entity that was created locally and has not
// been persisted yet. The prefix is the sole signal distinguishing a
// pending creation from a server-issued record.
const DraftIDPrefix = "NEW-"

// NewDraftID generates a local draft identifier of the form NEW-<millis>.
func NewDraftID() string {
	return fmt.Sprintf("%s%d", DraftIDPrefix, time.Now().UnixMilli())
}

// IsDraft reports whether id denotes a locally created, unsynced entity.
func IsDraft(id string) bool {
	return strings.HasPrefix(id, DraftIDPrefix)
}

// ChallengeHeader holds the descriptive fields of a challenge.
// Dates are kept as strings in the server's wire format.
type ChallengeHeader struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
	ChallengeEnd string `json:"challange_end"`
}

// Challenge is a community challenge with its nested sections.
type Challenge struct {
	ID       string          `json:"id"`
	Header   ChallengeHeader `json:"header"`
	Sections []Section       `json:"sections"`
}

// Section groups tasks under a title within a challenge.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Task `json:"items"`
}

// Task is a single challenge entry that can be completed and may carry
// nested subtasks.
type Task struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	Subchallenges []Subtask `json:"subchallenges"`
}

// Subtask is a nested entry below a task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CreatedTime parses the header's created_at date. Both the API's
// ISO date (2006-01-02) and full RFC 3339 timestamps are accepted;
// unparseable values sort to the zero time.
func (c Challenge) CreatedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.Header.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
