// Package store persists the append-only case archive: conversation turns
// and dispatched tasks, keyed by case id. SQLite is the only backend; the
// archive makes no durability claims beyond what SQLite provides.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
)

// ErrClosed is returned by operations on a closed archive.
var ErrClosed = errors.New("archive is closed")

// TurnEntry is one persisted conversation turn.
type TurnEntry struct {
	TurnID    string    `json:"turn_id"`
	CaseID    caseid.ID `json:"case_id"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Tags      []string  `json:"tags,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskEntry is one persisted task record.
type TaskEntry struct {
	TaskID      string     `json:"task_id"`
	CaseID      caseid.ID  `json:"case_id"`
	FromAgent   string     `json:"from_agent"`
	ToAgent     string     `json:"to_agent"`
	Kind        string     `json:"kind"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Archive is the SQLite-backed case archive. Writes are inserts only;
// nothing here updates or deletes a recorded row.
type Archive struct {
	db *sql.DB
}

// NewArchive opens or creates the archive database at path. The parent
// directory is created if missing.
func NewArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		turn_id    TEXT PRIMARY KEY,
		case_id    TEXT NOT NULL,
		input      TEXT NOT NULL,
		output     TEXT NOT NULL,
		tags       TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_case ON turns(case_id, created_at);

	CREATE TABLE IF NOT EXISTS tasks (
		task_id      TEXT PRIMARY KEY,
		case_id      TEXT NOT NULL,
		from_agent   TEXT NOT NULL,
		to_agent     TEXT NOT NULL,
		kind         TEXT NOT NULL,
		payload      TEXT NOT NULL,
		status       TEXT NOT NULL,
		result       TEXT,
		error        TEXT,
		created_at   TEXT NOT NULL,
		completed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_case ON tasks(case_id, created_at);
	`
	_, err := a.db.Exec(schema)
	return err
}

// SaveTurn appends one conversation turn to the archive.
func (a *Archive) SaveTurn(ctx context.Context, turn TurnEntry) error {
	if a.db == nil {
		return ErrClosed
	}
	tags, err := json.Marshal(turn.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, case_id, input, output, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		turn.TurnID, string(turn.CaseID), turn.Input, turn.Output,
		string(tags), turn.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// SaveTask appends one task record to the archive.
func (a *Archive) SaveTask(ctx context.Context, task TaskEntry) error {
	if a.db == nil {
		return ErrClosed
	}
	var completed any
	if task.CompletedAt != nil {
		completed = task.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, case_id, from_agent, to_agent, kind, payload,
		                    status, result, error, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskID, string(task.CaseID), task.FromAgent, task.ToAgent,
		task.Kind, task.Payload, task.Status, task.Result, task.Error,
		task.CreatedAt.UTC().Format(time.RFC3339Nano), completed,
	)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Turns returns one case's conversation log, oldest first.
func (a *Archive) Turns(ctx context.Context, id caseid.ID) ([]TurnEntry, error) {
	if a.db == nil {
		return nil, ErrClosed
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT turn_id, input, output, tags, created_at
		 FROM turns WHERE case_id = ? ORDER BY created_at`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnEntry
	for rows.Next() {
		entry := TurnEntry{CaseID: id}
		var tags sql.NullString
		var created string
		if err := rows.Scan(&entry.TurnID, &entry.Input, &entry.Output, &tags, &created); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if tags.Valid && tags.String != "null" {
			if err := json.Unmarshal([]byte(tags.String), &entry.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		if entry.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse turn timestamp: %w", err)
		}
		turns = append(turns, entry)
	}
	return turns, rows.Err()
}

// Tasks returns one case's task history, oldest first.
func (a *Archive) Tasks(ctx context.Context, id caseid.ID) ([]TaskEntry, error) {
	if a.db == nil {
		return nil, ErrClosed
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT task_id, from_agent, to_agent, kind, payload, status, result, error,
		        created_at, completed_at
		 FROM tasks WHERE case_id = ? ORDER BY created_at`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskEntry
	for rows.Next() {
		entry := TaskEntry{CaseID: id}
		var result, errText, completed sql.NullString
		var created string
		if err := rows.Scan(&entry.TaskID, &entry.FromAgent, &entry.ToAgent,
			&entry.Kind, &entry.Payload, &entry.Status, &result, &errText,
			&created, &completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		entry.Result = result.String
		entry.Error = errText.String
		if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse task timestamp: %w", err)
		}
		if completed.Valid {
			ts, err := time.Parse(time.RFC3339Nano, completed.String)
			if err != nil {
				return nil, fmt.Errorf("parse task completion: %w", err)
			}
			entry.CompletedAt = &ts
		}
		tasks = append(tasks, entry)
	}
	return tasks, rows.Err()
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
