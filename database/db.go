package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the SQLite file at path and makes sure the todo table exists.
func InitDB(ctx context.Context, path string, logger *log.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One shared connection; SQLite serializes the writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS todo (
		id TEXT PRIMARY KEY NOT NULL,
		todo TEXT,
		category TEXT,
		priority TEXT,
		status TEXT,
		due_date TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create todo table: %w", err)
	}

	logger.Info("Database initialized successfully", "path", path)
	return db, nil
}

// TodoService handles database operations for todos
type TodoService struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTodoService(db *sql.DB, timeout time.Duration) *TodoService {
	return &TodoService{db: db, timeout: timeout}
}

func (s *TodoService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Ping checks that the store answers within the configured timeout.
func (s *TodoService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

// List returns the todos matching filter.
func (s *TodoService) List(ctx context.Context, filter TodoFilter) ([]Todo, error) {
	query, args := BuildListQuery(filter)
	return s.query(ctx, "list todos", query, args...)
}

// ListByDueDate returns the todos due on date, which must be in canonical
// YYYY-MM-DD form.
func (s *TodoService) ListByDueDate(ctx context.Context, date string) ([]Todo, error) {
	return s.query(ctx, "list todos by due date", selectTodos+" WHERE due_date = ? ORDER BY rowid", date)
}

// GetByID retrieves a single todo or ErrNotFound.
func (s *TodoService) GetByID(ctx context.Context, id string) (*Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, selectTodos+" WHERE id = ?", id)
	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify("get todo", err)
	}
	return todo, nil
}

// Insert persists a new todo. A duplicate id yields ErrConstraintViolation.
func (s *TodoService) Insert(ctx context.Context, todo Todo) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var dueDate sql.NullString
	if todo.DueDate != nil {
		dueDate = sql.NullString{String: *todo.DueDate, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todo (id, todo, category, priority, status, due_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(todo.ID),
		nullString(todo.Todo),
		nullString(todo.Category),
		nullString(todo.Priority),
		nullString(todo.Status),
		dueDate,
	)
	if err != nil {
		return classify("insert todo", err)
	}
	return nil
}

// UpdateField sets a single column of the todo identified by id. It returns
// ErrNotFound when no row has that id.
func (s *TodoService) UpdateField(ctx context.Context, id string, field Field, value string) error {
	column := field.Column()
	if column == "" {
		return fmt.Errorf("update todo: unknown field %q", field)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// column comes from the fixed Field set, never from the request.
	res, err := s.db.ExecContext(ctx, "UPDATE todo SET "+column+" = ? WHERE id = ?", value, id)
	if err != nil {
		return classify("update todo", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify("update todo", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes the todo with id and reports whether a row was removed.
// Deleting a missing todo is not an error.
func (s *TodoService) DeleteByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM todo WHERE id = ?", id)
	if err != nil {
		return false, classify("delete todo", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("delete todo", err)
	}
	return n > 0, nil
}

func (s *TodoService) query(ctx context.Context, op, query string, args ...any) ([]Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return todos, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTodo maps a row onto the wire shape; due_date becomes dueDate.
func scanTodo(row scanner) (*Todo, error) {
	var id string
	var text, priority, status, category, dueDate sql.NullString
	if err := row.Scan(&id, &text, &priority, &status, &category, &dueDate); err != nil {
		return nil, err
	}

	todo := &Todo{
		ID:       TodoID(id),
		Todo:     text.String,
		Priority: priority.String,
		Status:   status.String,
		Category: category.String,
	}
	if dueDate.Valid {
		todo.DueDate = &dueDate.String
	}
	return todo, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
