package indexdb

import "database/sql"

// Sync blocks until every previously enqueued write has been committed.
// Mostly used by tests and by shutdown paths that query right after writing.
func (s *SQLiteIndex) Sync() {
	if s == nil || s.closed.Load() {
		return
	}
	done := make(chan struct{})
	s.ch <- req{kind: reqSync, done: done}
	<-done
}

// LatestSnapshot returns the newest recorded snapshot row, if any.
func (s *SQLiteIndex) LatestSnapshot() (tick uint64, path, digest string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT tick, path, digest FROM snapshots ORDER BY tick DESC LIMIT 1`)
	var t int64
	if err = row.Scan(&t, &path, &digest); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", "", false, nil
		}
		return 0, "", "", false, err
	}
	return uint64(t), path, digest, true, nil
}

// TickDigest looks up the recorded digest for one tick.
func (s *SQLiteIndex) TickDigest(tick uint64) (string, bool, error) {
	row := s.db.QueryRow(`SELECT digest FROM ticks WHERE tick = ?`, int64(tick))
	var d string
	if err := row.Scan(&d); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return d, true, nil
}

// CommandCountByOp aggregates indexed commands per op across all ticks.
func (s *SQLiteIndex) CommandCountByOp() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT op, COUNT(*) FROM commands GROUP BY op`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		out[op] = n
	}
	return out, rows.Err()
}

// AuditCountForActor counts audit rows attributed to one actor.
func (s *SQLiteIndex) AuditCountForActor(actor string) (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM audits WHERE actor = ?`, actor)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
