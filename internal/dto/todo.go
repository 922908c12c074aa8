package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

// State parses a todo state from JSON as one of "draft", "todo", "doing",
// "done". Absent or null means "not supplied".
type State struct{ v *dom.TodoState }

func (s *State) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		s.v = nil
		return nil
	}
	parsed, err := dom.ParseTodoState(strings.TrimSpace(*raw))
	if err != nil {
		return fmt.Errorf("state: use one of draft, todo, doing, done")
	}
	s.v = &parsed
	return nil
}

// Ptr returns *dom.TodoState for use in service/domain. Nil if not supplied.
func (s State) Ptr() *dom.TodoState { return s.v }

type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=1000"`
	State       State  `json:"state"`
}

type UpdateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	State       State   `json:"state"`
}

// Patch converts the request into a domain patch.
func (r UpdateTodoRequest) Patch() dom.TodoPatch {
	return dom.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		State:       r.State.Ptr(),
	}
}

// ListTodosQuery binds the query string of GET /todos/.
type ListTodosQuery struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	State       string `form:"state"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
	Limit       int    `form:"limit" binding:"omitempty,min=1"`
}

type TodoResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
}

func TodoToResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       t.State.String(),
	}
}

func TodosToResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = TodoToResponse(list[i])
	}
	return out
}
