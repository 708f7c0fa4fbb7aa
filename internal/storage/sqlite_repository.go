package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

const (
	dayKindPending   = "pending"
	dayKindCompleted = "completed"
	dayKindNotified  = "notified"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path, applies pending migrations and returns a repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	dsn := path + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	version := in.Version
	if version <= 0 {
		version = 1
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, owner_id, title, description, time_of_day, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, in.OwnerID, in.Title, in.Description, in.TimeOfDay, version,
			mustTime(in.CreatedAt), mustTime(updatedOrCreated(in)),
		); err != nil {
			return err
		}
		return insertDays(ctx, tx, in)
	})
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, time_of_day, version, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	if err := r.loadDays(ctx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, time_of_day = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND version = ?`,
			in.Title, in.Description, in.TimeOfDay, mustTime(updatedOrCreated(in)), in.ID, in.Version,
		)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, in.ID).Scan(&exists)
			if err != nil {
				return err
			}
			if exists == 0 {
				return ErrNotFound
			}
			return fmt.Errorf("%w: task %s at version %d", ErrVersionConflict, in.ID, in.Version)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_days WHERE task_id = ?`, in.ID); err != nil {
			return err
		}
		return insertDays(ctx, tx, in)
	})
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, owner_id, title, description, time_of_day, version, created_at, updated_at FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.OwnerID != "" {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Day != "" {
		clauses = append(clauses, "id IN (SELECT task_id FROM task_days WHERE day = ? AND kind IN ('pending', 'completed'))")
		args = append(args, filter.Day)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range out {
		if err := r.loadDays(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, in User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, telegram_chat_id, notifications_enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Email, in.TelegramChatID, boolInt(in.NotificationsEnabled), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, telegram_chat_id, notifications_enabled, created_at
		FROM users WHERE id = ?`, id)
	return scanUserRow(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, telegram_chat_id, notifications_enabled, created_at
		FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUserRow(row)
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, in User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, email = ?, telegram_chat_id = ?, notifications_enabled = ?
		WHERE id = ?`,
		in.Name, in.Email, in.TelegramChatID, boolInt(in.NotificationsEnabled), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListUsers(ctx context.Context, filter UserListFilter) ([]User, error) {
	query := `SELECT id, name, email, telegram_chat_id, notifications_enabled, created_at FROM users`
	args := make([]any, 0, 3)
	if filter.NotificationsEnabled != nil {
		query += ` WHERE notifications_enabled = ?`
		args = append(args, boolInt(*filter.NotificationsEnabled))
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		item, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) loadDays(ctx context.Context, task *Task) error {
	rows, err := r.db.QueryContext(ctx, `SELECT day, kind FROM task_days WHERE task_id = ? ORDER BY day ASC`, task.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	task.PendingDays = make([]string, 0)
	task.CompletedDays = make([]string, 0)
	task.NotifiedDays = make([]string, 0)
	for rows.Next() {
		var day, kind string
		if err := rows.Scan(&day, &kind); err != nil {
			return err
		}
		switch kind {
		case dayKindPending:
			task.PendingDays = append(task.PendingDays, day)
		case dayKindCompleted:
			task.CompletedDays = append(task.CompletedDays, day)
		case dayKindNotified:
			task.NotifiedDays = append(task.NotifiedDays, day)
		}
	}
	return rows.Err()
}

func insertDays(ctx context.Context, tx *sql.Tx, in Task) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO task_days (task_id, day, kind) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	groups := []struct {
		kind string
		days []string
	}{
		{dayKindPending, in.PendingDays},
		{dayKindCompleted, in.CompletedDays},
		{dayKindNotified, in.NotifiedDays},
	}
	for _, g := range groups {
		for _, day := range g.days {
			if _, err := stmt.ExecContext(ctx, in.ID, day, g.kind); err != nil {
				return fmt.Errorf("insert %s day %s: %w", g.kind, day, err)
			}
		}
	}
	return nil
}

func updatedOrCreated(in Task) time.Time {
	if in.UpdatedAt.IsZero() {
		return in.CreatedAt
	}
	return in.UpdatedAt
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one tasks row. Values that come back but do not decode are
// recorded in DecodeErr so one bad row does not hide the rest of a listing.
func scanTask(s scanner) (Task, error) {
	var out Task
	var version, created, updated string
	if err := s.Scan(&out.ID, &out.OwnerID, &out.Title, &out.Description, &out.TimeOfDay, &version, &created, &updated); err != nil {
		return Task{}, err
	}
	var err error
	if out.Version, err = strconv.ParseInt(version, 10, 64); err != nil {
		out.DecodeErr = fmt.Errorf("version %q: %w", version, err)
		return out, nil
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		out.DecodeErr = fmt.Errorf("created_at %q: %w", created, err)
		return out, nil
	}
	if out.UpdatedAt, err = parseRequiredTime(updated); err != nil {
		out.DecodeErr = fmt.Errorf("updated_at %q: %w", updated, err)
	}
	return out, nil
}

func scanUserRow(row *sql.Row) (User, error) {
	item, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return item, nil
}

func scanUser(s scanner) (User, error) {
	var out User
	var enabled int
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.Email, &out.TelegramChatID, &enabled, &created); err != nil {
		return User{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return User{}, err
	}
	out.NotificationsEnabled = enabled == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
