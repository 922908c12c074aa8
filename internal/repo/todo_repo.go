package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

// TodoRepo provides todo persistence. Every lookup and mutation is scoped by
// owner: a row belonging to another user behaves exactly like a missing row.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Get(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64, f dom.TodoFilter, p dom.Page) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, title, description, state, user_id, created_at, updated_at`

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var t dom.Todo
	var state string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &state, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dom.Todo{}, err
	}
	t.State, err = dom.ParseTodoState(state)
	if err != nil {
		return dom.Todo{}, err
	}
	return t, nil
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, state, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, t.Title, t.Description, t.State.String(), t.UserID))
}

func (r *PGTodoRepo) Get(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	return scanTodo(r.db.QueryRow(ctx, query, id, userID))
}

// List returns the caller's todos matching the filter, ordered by ID, with
// offset/limit applied after filtering. The WHERE clause is built per filter
// so absent fields add no predicate.
func (r *PGTodoRepo) List(ctx context.Context, userID int64, f dom.TodoFilter, p dom.Page) ([]dom.Todo, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`)
	args := []any{userID}

	if f.Title != "" {
		args = append(args, "%"+f.Title+"%")
		fmt.Fprintf(&sb, ` AND title ILIKE $%d`, len(args))
	}
	if f.Description != "" {
		args = append(args, "%"+f.Description+"%")
		fmt.Fprintf(&sb, ` AND description ILIKE $%d`, len(args))
	}
	if f.State != nil {
		args = append(args, f.State.String())
		fmt.Fprintf(&sb, ` AND state = $%d`, len(args))
	}

	sb.WriteString(` ORDER BY id`)
	if p.Limit > 0 {
		sb.WriteString(` LIMIT ` + strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		sb.WriteString(` OFFSET ` + strconv.Itoa(p.Offset))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update overwrites title, description and state of the caller's todo in a
// single owner-scoped statement. A miss (absent or foreign row) returns
// pgx.ErrNoRows.
func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $3, description = $4, state = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, patch.State.String()))
}

// Delete removes the caller's todo. Returns false when nothing matched.
func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
