package domain

import (
	"fmt"
	"time"
)

// TodoState is the closed set of states a task can be in. There is no
// transition graph: any state is settable on create or update.
type TodoState int

const (
	StateDraft TodoState = iota
	StateTodo
	StateDoing
	StateDone
)

var stateNames = [...]string{"draft", "todo", "doing", "done"}

func (s TodoState) String() string {
	if s < StateDraft || s > StateDone {
		return fmt.Sprintf("TodoState(%d)", int(s))
	}
	return stateNames[s]
}

// ParseTodoState converts a wire string into a TodoState.
func ParseTodoState(s string) (TodoState, error) {
	for i, name := range stateNames {
		if s == name {
			return TodoState(i), nil
		}
	}
	return StateDraft, fmt.Errorf("unknown todo state %q", s)
}

// Todo is the domain entity for a task. UserID is set from the
// authenticated caller at creation and never changes afterwards.
type Todo struct {
	ID          int64
	Title       string
	Description string
	State       TodoState
	UserID      int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoFilter narrows a listing. Title and Description are case-insensitive
// substring matches, State an exact match; empty fields are skipped and the
// rest combine with AND.
type TodoFilter struct {
	Title       string
	Description string
	State       *TodoState
}

// Page bounds a listing. Offset 0 starts at the beginning; Limit <= 0 means
// no cap.
type Page struct {
	Offset int
	Limit  int
}

// TodoPatch carries a partial update; nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	State       *TodoState
}
