package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

// memTodoRepo mirrors the Postgres todo repo contract: owner-joined lookups,
// ILIKE-style substring filters, id-ordered listing with offset/limit.
type memTodoRepo struct {
	nextID int64
	todos  map[int64]dom.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{nextID: 1, todos: make(map[int64]dom.Todo)}
}

func (r *memTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	t.ID = r.nextID
	r.todos[t.ID] = t
	r.nextID++
	return t, nil
}

func (r *memTodoRepo) Get(_ context.Context, userID, id int64) (dom.Todo, error) {
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *memTodoRepo) List(_ context.Context, userID int64, f dom.TodoFilter, p dom.Page) ([]dom.Todo, error) {
	var matched []dom.Todo
	for id := int64(1); id < r.nextID; id++ {
		t, ok := r.todos[id]
		if !ok || t.UserID != userID {
			continue
		}
		if f.Title != "" && !containsFold(t.Title, f.Title) {
			continue
		}
		if f.Description != "" && !containsFold(t.Description, f.Description) {
			continue
		}
		if f.State != nil && t.State != *f.State {
			continue
		}
		matched = append(matched, t)
	}
	if p.Offset > 0 {
		if p.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(matched) {
		matched = matched[:p.Limit]
	}
	return matched, nil
}

func (r *memTodoRepo) Update(_ context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Title = patch.Title
	t.Description = patch.Description
	t.State = patch.State
	r.todos[id] = t
	return t, nil
}

func (r *memTodoRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

const (
	userA = int64(1)
	userB = int64(2)
)

func seed(t *testing.T, svc *TodoService, userID int64, todos ...dom.Todo) []dom.Todo {
	t.Helper()
	out := make([]dom.Todo, len(todos))
	for i, td := range todos {
		created, err := svc.Create(context.Background(), userID, td.Title, td.Description, td.State)
		require.NoError(t, err)
		out[i] = created
	}
	return out
}

func TestTodoService_CreateForcesOwner(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)

	created, err := svc.Create(context.Background(), userA, "test", "test", dom.StateDraft)
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, userA, created.UserID)
	assert.Equal(t, dom.StateDraft, created.State)
}

func TestTodoService_ForeignTodoIsNotFound(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	owned := seed(t, svc, userA, dom.Todo{Title: "secret", State: dom.StateTodo})

	// B cannot see, change or remove A's todo; the answer is always the
	// not-found sentinel, never a permission error.
	list, err := svc.List(context.Background(), userB, dom.TodoFilter{}, dom.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(context.Background(), userB, owned[0].ID, dom.TodoPatch{Title: ptr("stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), userB, owned[0].ID), ErrNotFound)

	// And the todo is untouched for its owner.
	got, err := svc.List(context.Background(), userA, dom.TodoFilter{}, dom.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "secret", got[0].Title)
}

func TestTodoService_UpdatePartialPreservesFields(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	owned := seed(t, svc, userA, dom.Todo{Title: "Cycling", Description: "around the lake", State: dom.StateDoing})

	got, err := svc.Update(context.Background(), userA, owned[0].ID, dom.TodoPatch{Title: ptr("Running")})
	require.NoError(t, err)

	assert.Equal(t, "Running", got.Title)
	assert.Equal(t, "around the lake", got.Description)
	assert.Equal(t, dom.StateDoing, got.State)
}

func TestTodoService_UpdateMissingIsNotFound(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)

	_, err := svc.Update(context.Background(), userA, 1, dom.TodoPatch{Title: ptr("Error")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoService_DeleteMissingIsNotFound(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), userA, 1), ErrNotFound)
}

func TestTodoService_ListFiltersCombineWithAnd(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	done := dom.StateDone

	for i := 0; i < 5; i++ {
		seed(t, svc, userA, dom.Todo{Title: "Title 1", Description: "example", State: dom.StateDone})
	}
	for i := 0; i < 3; i++ {
		seed(t, svc, userA, dom.Todo{Title: "Title 2", Description: "example", State: dom.StateTodo})
	}

	list, err := svc.List(context.Background(), userA,
		dom.TodoFilter{Title: "Title", Description: "example", State: &done}, dom.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestTodoService_ListFilterIsCaseInsensitiveSubstring(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	seed(t, svc, userA,
		dom.Todo{Title: "Cycling", State: dom.StateTodo},
		dom.Todo{Title: "Read a book", State: dom.StateTodo},
	)

	for _, q := range []string{"Cycling", "cyc", "CLING"} {
		list, err := svc.List(context.Background(), userA, dom.TodoFilter{Title: q}, dom.Page{})
		require.NoError(t, err)
		require.Len(t, list, 1, "filter %q", q)
		assert.Equal(t, "Cycling", list[0].Title)
	}
}

func TestTodoService_ListPagination(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	created := seed(t, svc, userA,
		dom.Todo{Title: "a"}, dom.Todo{Title: "b"}, dom.Todo{Title: "c"},
		dom.Todo{Title: "d"}, dom.Todo{Title: "e"},
	)

	page, err := svc.List(context.Background(), userA, dom.TodoFilter{}, dom.Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, created[1].ID, page[0].ID)
	assert.Equal(t, created[2].ID, page[1].ID)
}

func TestTodoService_ListPaginationPartitions(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	for i := 0; i < 10; i++ {
		seed(t, svc, userA, dom.Todo{Title: "t"})
	}

	first, err := svc.List(context.Background(), userA, dom.TodoFilter{}, dom.Page{Offset: 0, Limit: 5})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), userA, dom.TodoFilter{}, dom.Page{Offset: 5, Limit: 5})
	require.NoError(t, err)

	require.Len(t, first, 5)
	require.Len(t, second, 5)
	seen := make(map[int64]bool)
	for _, td := range append(first, second...) {
		assert.False(t, seen[td.ID], "todo %d appears twice", td.ID)
		seen[td.ID] = true
	}
	assert.Len(t, seen, 10)
}

func TestTodoService_ListOffsetPastEnd(t *testing.T) {
	svc := NewTodoService(newMemTodoRepo(), nil)
	seed(t, svc, userA, dom.Todo{Title: "only"})

	list, err := svc.List(context.Background(), userA, dom.TodoFilter{}, dom.Page{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, list)
}
