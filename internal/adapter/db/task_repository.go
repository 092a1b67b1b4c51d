package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

const taskColumns = `id, owner_id, title, description, status, priority, created_at, updated_at`

const findTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE owner_id = ? AND id = ?
`

const insertTaskQuery = `
INSERT INTO tasks (` + taskColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const softDeleteTaskQuery = `
UPDATE tasks
SET status = ?, updated_at = ?
WHERE owner_id = ? AND id = ? AND status <> ?
`

// TaskRepository scopes every statement by owner_id. Business rules live in
// the service; writes only refuse to touch a row that is already deleted, so
// a delete that lands between the service's check and the write still wins.
type TaskRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type taskRow struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// WithClock replaces the time source used for created_at and updated_at.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

func (r *TaskRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, int, error) {
	where := []string{"owner_id = ?", "status <> ?"}
	args := []any{ownerID, string(domain.TaskStatusDeleted)}

	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, string(*filter.Priority))
	}
	predicate := strings.Join(where, " AND ")

	var total int
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM tasks WHERE " + predicate)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, wrapStorageError("count tasks", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}

	listQuery := r.db.Rebind(
		"SELECT " + taskColumns + " FROM tasks WHERE " + predicate +
			" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
	)
	pageArgs := append(append([]any{}, args...), limit, filter.Offset)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, pageArgs...); err != nil {
		return nil, 0, wrapStorageError("list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, total, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	return findTask(ctx, r.db, ownerID, taskID)
}

func (r *TaskRepository) Create(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	now := r.timestamp()
	task := domain.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatusPending,
		Priority:    input.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}

	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(insertTaskQuery),
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, wrapStorageError("insert task", err)
	}

	return task, nil
}

// Update applies only the fields present in input. A deleted row is left as
// is and reported as ErrInvalidState. The owner-scoped write and re-read
// share one transaction so a task of another owner is never touched.
func (r *TaskRepository) Update(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (task domain.Task, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Task{}, wrapStorageError("begin update", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var sets []string
	var args []any
	if input.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *input.Title)
	}
	if input.DescriptionSet {
		// A nil description clears the column.
		sets = append(sets, "description = ?")
		args = append(args, input.Description)
	}
	if input.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*input.Status))
	}
	if input.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*input.Priority))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.timestamp(), ownerID, taskID, string(domain.TaskStatusDeleted))

	query := tx.Rebind("UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE owner_id = ? AND id = ? AND status <> ?")
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Task{}, wrapStorageError("update task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Task{}, wrapStorageError("update task", err)
	}

	if task, err = findTask(ctx, tx, ownerID, taskID); err != nil {
		return domain.Task{}, err
	}
	if affected == 0 && task.Status.IsTerminal() {
		return domain.Task{}, domain.ErrInvalidState
	}

	if err = tx.Commit(); err != nil {
		return domain.Task{}, wrapStorageError("commit update", err)
	}
	return task, nil
}

func (r *TaskRepository) SoftDelete(ctx context.Context, ownerID, taskID string) error {
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(softDeleteTaskQuery),
		string(domain.TaskStatusDeleted),
		r.timestamp(),
		ownerID,
		taskID,
		string(domain.TaskStatusDeleted),
	)
	if err != nil {
		return wrapStorageError("soft delete task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapStorageError("soft delete task", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// timestamp is truncated to microseconds, the finest precision every
// supported driver keeps.
func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func findTask(ctx context.Context, q queryer, ownerID, taskID string) (domain.Task, error) {
	var row taskRow
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(findTaskQuery), ownerID, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, wrapStorageError("find task", err)
	}
	return mapTaskRowToDomainTask(row), nil
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Title:     row.Title,
		Status:    domain.TaskStatus(row.Status),
		Priority:  domain.TaskPriority(row.Priority),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	return task
}

// wrapStorageError marks connectivity failures with ErrStorageUnavailable so
// the transport layer can decide to retry them.
func wrapStorageError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
