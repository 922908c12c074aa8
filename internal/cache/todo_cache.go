package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

const keyListPrefix = "todo:list:"

// TodoCache caches per-user todo listings in Redis. Entries are keyed by
// owner and filter/page signature and dropped wholesale on any write by that
// owner.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached listing for the given query or nil if miss.
func (c *TodoCache) GetList(ctx context.Context, userID int64, f dom.TodoFilter, p dom.Page) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, f, p)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores a listing in cache.
func (c *TodoCache) SetList(ctx context.Context, userID int64, f dom.TodoFilter, p dom.Page, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, f, p), b, c.ttl).Err()
}

// InvalidateUser removes every cached listing for the given owner.
func (c *TodoCache) InvalidateUser(ctx context.Context, userID int64) error {
	pattern := keyListPrefix + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ListKey builds the cache key for a listing query. Exported for use as a
// singleflight key in the service.
func ListKey(userID int64, f dom.TodoFilter, p dom.Page) string {
	return listKey(userID, f, p)
}

func listKey(userID int64, f dom.TodoFilter, p dom.Page) string {
	state := ""
	if f.State != nil {
		state = f.State.String()
	}
	// Free-form filter text is escaped so it cannot collide with the key
	// separator: distinct queries must never share a key.
	parts := []string{
		strconv.FormatInt(userID, 10),
		url.QueryEscape(strings.ToLower(strings.TrimSpace(f.Title))),
		url.QueryEscape(strings.ToLower(strings.TrimSpace(f.Description))),
		state,
		strconv.Itoa(p.Offset),
		strconv.Itoa(p.Limit),
	}
	return keyListPrefix + strings.Join(parts, ":")
}
