package mysql

import (
	"context"
	"database/sql"
	"time"
)

// Execution is one calibration workflow run.
type Execution struct {
	ExecutionID    string     `json:"execution_id"`
	ChipID         string     `json:"chip_id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	Tag            string     `json:"tag,omitempty"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	TaskCount      int64      `json:"task_count"`
	FailedTasks    int64      `json:"failed_tasks"`
}

// ExecutionTask is one task row inside an execution timeline.
type ExecutionTask struct {
	TaskName  string     `json:"task_name"`
	QID       string     `json:"qid,omitempty"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// ListRunningExecutions returns executions still in flight, oldest first.
func (s *Store) ListRunningExecutions(ctx context.Context, limit int) ([]Execution, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT e.execution_id,
       e.chip_id,
       e.name,
       e.status,
       COALESCE(e.tag, ''),
       e.started_at,
       e.ended_at,
       COALESCE(t.task_count, 0),
       COALESCE(t.failed_tasks, 0)
FROM executions e
LEFT JOIN (
    SELECT execution_id,
           COUNT(*) AS task_count,
           SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed_tasks
    FROM execution_tasks
    GROUP BY execution_id
) t ON t.execution_id = e.execution_id
WHERE e.status IN ('running', 'scheduled')
ORDER BY e.started_at ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExecutions(rows, limit)
}

// ListCompletedExecutions returns finished executions, newest first. A nil
// chip means all chips; this is the Execution page's nullable filter.
func (s *Store) ListCompletedExecutions(ctx context.Context, limit, offset int, chip *string) ([]Execution, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
SELECT e.execution_id,
       e.chip_id,
       e.name,
       e.status,
       COALESCE(e.tag, ''),
       e.started_at,
       e.ended_at,
       COALESCE(t.task_count, 0),
       COALESCE(t.failed_tasks, 0)
FROM executions e
LEFT JOIN (
    SELECT execution_id,
           COUNT(*) AS task_count,
           SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed_tasks
    FROM execution_tasks
    GROUP BY execution_id
) t ON t.execution_id = e.execution_id
WHERE e.status NOT IN ('running', 'scheduled')`
	args := []any{}
	if chip != nil {
		query += ` AND e.chip_id = ?`
		args = append(args, *chip)
	}
	query += `
ORDER BY e.started_at DESC
LIMIT ? OFFSET ?;`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExecutions(rows, limit)
}

// GetExecutionDetail returns one execution with its task timeline.
func (s *Store) GetExecutionDetail(ctx context.Context, executionID string, limit int) (*Execution, []ExecutionTask, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
SELECT e.execution_id,
       e.chip_id,
       e.name,
       e.status,
       COALESCE(e.tag, ''),
       e.started_at,
       e.ended_at,
       COALESCE(t.task_count, 0),
       COALESCE(t.failed_tasks, 0)
FROM executions e
LEFT JOIN (
    SELECT execution_id,
           COUNT(*) AS task_count,
           SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed_tasks
    FROM execution_tasks
    GROUP BY execution_id
) t ON t.execution_id = e.execution_id
WHERE e.execution_id = ?;
`, executionID)

	item, err := scanExecution(row)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT task_name, COALESCE(qid, ''), status, started_at, ended_at, COALESCE(message, '')
FROM execution_tasks
WHERE execution_id = ?
ORDER BY started_at ASC
LIMIT ?;
`, executionID, limit)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tasks := make([]ExecutionTask, 0, limit)
	for rows.Next() {
		var (
			task      ExecutionTask
			startedAt sql.NullTime
			endedAt   sql.NullTime
		)
		if err := rows.Scan(&task.TaskName, &task.QID, &task.Status, &startedAt, &endedAt, &task.Message); err != nil {
			return nil, nil, err
		}
		if startedAt.Valid {
			t := startedAt.Time.UTC()
			task.StartedAt = &t
		}
		if endedAt.Valid {
			t := endedAt.Time.UTC()
			task.EndedAt = &t
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return item, tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (*Execution, error) {
	var (
		item      Execution
		startedAt sql.NullTime
		endedAt   sql.NullTime
	)
	if err := row.Scan(&item.ExecutionID, &item.ChipID, &item.Name, &item.Status, &item.Tag,
		&startedAt, &endedAt, &item.TaskCount, &item.FailedTasks); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		item.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time.UTC()
		item.EndedAt = &t
	}
	switch {
	case item.StartedAt != nil && item.EndedAt != nil:
		item.ElapsedSeconds = int64(item.EndedAt.Sub(*item.StartedAt).Seconds())
	case item.StartedAt != nil:
		item.ElapsedSeconds = int64(time.Since(*item.StartedAt).Seconds())
	}
	return &item, nil
}

func scanExecutions(rows *sql.Rows, limit int) ([]Execution, error) {
	out := make([]Execution, 0, limit)
	for rows.Next() {
		item, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
