package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/miwitv/fanclient/internal/model"
)

// saveBody is the bulk-save request shape for /challenge/create and
// /challenge/update/{id}. Section ids are server-managed and omitted;
// item and subtask ids are kept so the server can match existing rows.
type saveBody struct {
	Header   model.ChallengeHeader `json:"header"`
	Sections []saveSection         `json:"sections"`
}

type saveSection struct {
	Title string     `json:"title"`
	Items []saveItem `json:"items"`
}

type saveItem struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Completed     bool          `json:"completed"`
	Subchallenges []saveSubtask `json:"subchallenges"`
}

type saveSubtask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// saveResponse is the server's acknowledgement of a bulk save.
type saveResponse struct {
	Message string `json:"message"`
}

// completionBody carries a completion toggle for tasks and subtasks.
type completionBody struct {
	Completed bool `json:"completed"`
}

// Challenges fetches all challenges, newest first by header creation
// date.
func (c *Client) Challenges(ctx context.Context) ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := c.get(ctx, "/challenge/all", &challenges); err != nil {
		return nil, err
	}
	sort.SliceStable(challenges, func(i, j int) bool {
		return challenges[i].CreatedTime().After(challenges[j].CreatedTime())
	})
	return challenges, nil
}

// DeleteChallenge removes a persisted challenge. Requires a session.
func (c *Client) DeleteChallenge(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/challenge/delete/"+id, nil, nil)
}

// UpdateTask persists a task completion toggle.
func (c *Client) UpdateTask(ctx context.Context, id string, completed bool) error {
	return c.do(ctx, http.MethodPut, "/task/"+id, completionBody{Completed: completed}, nil)
}

// UpdateSubtask persists a subtask completion toggle.
func (c *Client) UpdateSubtask(ctx context.Context, id string, completed bool) error {
	return c.do(ctx, http.MethodPut, "/subchallenge/"+id, completionBody{Completed: completed}, nil)
}

// SaveChallenge bulk-saves a challenge. A draft id routes to
// POST /challenge/create, a persisted id to PUT /challenge/update/{id}.
// Nodes that are still missing an id get a fresh draft id so the server
// can tell new rows apart from existing ones. Returns the server's
// acknowledgement message, which may be empty.
func (c *Client) SaveChallenge(ctx context.Context, ch model.Challenge) (string, error) {
	body := saveBody{
		Header:   ch.Header,
		Sections: make([]saveSection, 0, len(ch.Sections)),
	}
	for _, section := range ch.Sections {
		s := saveSection{Title: section.Title, Items: make([]saveItem, 0, len(section.Items))}
		for _, item := range section.Items {
			si := saveItem{
				ID:            item.ID,
				Text:          item.Text,
				Completed:     item.Completed,
				Subchallenges: make([]saveSubtask, 0, len(item.Subchallenges)),
			}
			if si.ID == "" {
				si.ID = model.NewDraftID()
			}
			for _, sub := range item.Subchallenges {
				ss := saveSubtask{ID: sub.ID, Text: sub.Text}
				if ss.ID == "" {
					ss.ID = model.NewDraftID()
				}
				si.Subchallenges = append(si.Subchallenges, ss)
			}
			s.Items = append(s.Items, si)
		}
		body.Sections = append(body.Sections, s)
	}

	method := http.MethodPut
	path := "/challenge/update/" + ch.ID
	if model.IsDraft(ch.ID) {
		method = http.MethodPost
		path = "/challenge/create"
	}

	var resp saveResponse
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
