package mysql

import (
	"context"
	"database/sql"
	"time"
)

// TaskResult is one calibration task outcome on one qubit, as shown on the
// chip browsing page.
type TaskResult struct {
	ExecutionID string     `json:"execution_id"`
	TaskName    string     `json:"task_name"`
	QID         string     `json:"qid"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// ListTaskResults returns results of one task on one chip. A nil day means
// the most recent results; otherwise only results started on that day.
func (s *Store) ListTaskResults(ctx context.Context, chip, task string, day *time.Time, limit int) ([]TaskResult, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
SELECT t.execution_id, t.task_name, COALESCE(t.qid, ''), t.status, t.started_at, t.ended_at, COALESCE(t.message, '')
FROM execution_tasks t
JOIN executions e ON e.execution_id = t.execution_id
WHERE e.chip_id = ? AND t.task_name = ?`
	args := []any{chip, task}
	if day != nil {
		query += ` AND t.started_at >= ? AND t.started_at < ?`
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	query += `
ORDER BY t.started_at DESC
LIMIT ?;`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskResult, 0, limit)
	for rows.Next() {
		var (
			item      TaskResult
			startedAt sql.NullTime
			endedAt   sql.NullTime
		)
		if err := rows.Scan(&item.ExecutionID, &item.TaskName, &item.QID, &item.Status, &startedAt, &endedAt, &item.Message); err != nil {
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
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
