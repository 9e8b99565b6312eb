package mysql

import (
	"context"
	"database/sql"
	"time"
)

// Chip is one installed quantum chip.
type Chip struct {
	ChipID           string     `json:"chip_id"`
	NumQubits        int64      `json:"num_qubits"`
	InstalledAt      *time.Time `json:"installed_at"`
	LastCalibratedAt *time.Time `json:"last_calibrated_at"`
}

// ListChips returns known chips, most recently calibrated first.
func (s *Store) ListChips(ctx context.Context, limit int) ([]Chip, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT c.chip_id,
       c.num_qubits,
       c.installed_at,
       MAX(v.calibrated_at) AS last_calibrated_at
FROM chips c
LEFT JOIN calibration_values v ON v.chip_id = c.chip_id
GROUP BY c.chip_id, c.num_qubits, c.installed_at
ORDER BY last_calibrated_at DESC, c.chip_id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Chip, 0, limit)
	for rows.Next() {
		var (
			item         Chip
			installedAt  sql.NullTime
			calibratedAt sql.NullTime
		)
		if err := rows.Scan(&item.ChipID, &item.NumQubits, &installedAt, &calibratedAt); err != nil {
			return nil, err
		}
		if installedAt.Valid {
			t := installedAt.Time.UTC()
			item.InstalledAt = &t
		}
		if calibratedAt.Valid {
			t := calibratedAt.Time.UTC()
			item.LastCalibratedAt = &t
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
