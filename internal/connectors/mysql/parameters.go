package mysql

import (
	"context"
	"database/sql"
	"time"
)

// ParameterPoint is one calibrated value of one parameter on one qubit.
type ParameterPoint struct {
	QID          string    `json:"qid"`
	Parameter    string    `json:"parameter"`
	Value        float64   `json:"value"`
	Error        *float64  `json:"error,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	Tag          string    `json:"tag,omitempty"`
	CalibratedAt time.Time `json:"calibrated_at"`
}

// ParameterHistory returns the chronological series of one parameter on one
// chip, across qubits, filtered by calibration tag. A zero since means no
// lower bound.
func (s *Store) ParameterHistory(ctx context.Context, chip, param, tag string, since time.Time, limit int) ([]ParameterPoint, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
SELECT qid, parameter, value, error, COALESCE(unit, ''), COALESCE(tag, ''), calibrated_at
FROM calibration_values
WHERE chip_id = ? AND parameter = ?`
	args := []any{chip, param}
	if tag != "" {
		query += ` AND tag = ?`
		args = append(args, tag)
	}
	if !since.IsZero() {
		query += ` AND calibrated_at >= ?`
		args = append(args, since)
	}
	query += `
ORDER BY calibrated_at ASC
LIMIT ?;`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParameterPoints(rows, limit)
}

// LatestParameterValues returns, per qubit and parameter, either the most
// recent value (mode "latest") or every value in the window (any other
// mode). The caller decides the window from the page's time range.
func (s *Store) LatestParameterValues(ctx context.Context, chip string, params []string, mode string, since time.Time) ([]ParameterPoint, error) {
	if len(params) == 0 {
		return nil, nil
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	placeholders := ""
	args := []any{chip}
	for i, p := range params {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, p)
	}

	query := `
SELECT qid, parameter, value, error, COALESCE(unit, ''), COALESCE(tag, ''), calibrated_at
FROM calibration_values
WHERE chip_id = ? AND parameter IN (` + placeholders + `)`
	if !since.IsZero() {
		query += ` AND calibrated_at >= ?`
		args = append(args, since)
	}
	if mode == "latest" {
		// Keep only the newest row per (qid, parameter).
		query += `
AND calibrated_at = (
    SELECT MAX(v2.calibrated_at)
    FROM calibration_values v2
    WHERE v2.chip_id = calibration_values.chip_id
      AND v2.qid = calibration_values.qid
      AND v2.parameter = calibration_values.parameter`
		if !since.IsZero() {
			query += ` AND v2.calibrated_at >= ?`
			args = append(args, since)
		}
		query += `
)`
	}
	query += `
ORDER BY parameter ASC, qid ASC, calibrated_at ASC;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParameterPoints(rows, 256)
}

// ParameterProvenance returns the calibration history of one parameter on
// one qubit, newest first, for the provenance page.
func (s *Store) ParameterProvenance(ctx context.Context, param, qid string, limit int) ([]ParameterPoint, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT qid, parameter, value, error, COALESCE(unit, ''), COALESCE(tag, ''), calibrated_at
FROM calibration_values
WHERE parameter = ? AND qid = ?
ORDER BY calibrated_at DESC
LIMIT ?;
`, param, qid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParameterPoints(rows, limit)
}

func scanParameterPoints(rows *sql.Rows, sizeHint int) ([]ParameterPoint, error) {
	out := make([]ParameterPoint, 0, sizeHint)
	for rows.Next() {
		var (
			item         ParameterPoint
			errVal       sql.NullFloat64
			calibratedAt time.Time
		)
		if err := rows.Scan(&item.QID, &item.Parameter, &item.Value, &errVal, &item.Unit, &item.Tag, &calibratedAt); err != nil {
			return nil, err
		}
		if errVal.Valid {
			v := errVal.Float64
			item.Error = &v
		}
		item.CalibratedAt = calibratedAt.UTC()
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
