package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/ig0r-ferreira/todoapi/internal/cache"
	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
	"github.com/ig0r-ferreira/todoapi/internal/repo"
)

// ErrNotFound covers both a missing todo and a todo owned by someone else.
// The two cases are indistinguishable on purpose: a non-owner must not be
// able to probe for existence.
var ErrNotFound = errors.New("task not found")

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// Create persists a new todo owned by the caller. The owner comes from the
// authenticated identity only; client input never chooses it.
func (s *TodoService) Create(ctx context.Context, callerID int64, title, desc string, state dom.TodoState) (dom.Todo, error) {
	t, err := s.repo.Create(ctx, dom.Todo{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(desc),
		State:       state,
		UserID:      callerID,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, callerID)
	return t, nil
}

// List returns the caller's todos matching the filter and page, in creation
// order. Cache misses for the same query are collapsed via singleflight.
func (s *TodoService) List(ctx context.Context, callerID int64, f dom.TodoFilter, p dom.Page) ([]dom.Todo, error) {
	if s.cache != nil {
		key := cache.ListKey(callerID, f, p)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, callerID, f, p); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, callerID, f, p)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, callerID, f, p, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, callerID, f, p)
}

// Update applies a partial update to the caller's todo. The lookup joins id
// and owner in one predicate, so a foreign id fails exactly like a missing
// one.
func (s *TodoService) Update(ctx context.Context, callerID, id int64, patch dom.TodoPatch) (dom.Todo, error) {
	existing, err := s.repo.Get(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	next := existing
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.State != nil {
		next.State = *patch.State
	}
	t, err := s.repo.Update(ctx, callerID, id, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, callerID)
	return t, nil
}

// Delete removes the caller's todo, with the same joint predicate as Update.
func (s *TodoService) Delete(ctx context.Context, callerID, id int64) error {
	deleted, err := s.repo.Delete(ctx, callerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateCache(ctx, callerID)
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
