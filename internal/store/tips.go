package store

import (
	"database/sql"
	"time"
)

// GetDailyTip returns the cached tip for the day, grade and subject, or "" when none.
func (s *Store) GetDailyTip(date, grade, subject string) (string, error) {
	var tip string
	err := s.db.QueryRow(
		`SELECT tip FROM daily_tips WHERE date = ? AND grade = ? AND subject = ?`,
		date, grade, subject,
	).Scan(&tip)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return tip, err
}

// SaveDailyTip caches the tip for the day, grade and subject.
// A tip already stored for the key wins so concurrent requests agree.
func (s *Store) SaveDailyTip(date, grade, subject, tip string) (string, error) {
	_, err := s.db.Exec(
		`INSERT INTO daily_tips (date, grade, subject, tip, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date, grade, subject) DO NOTHING`,
		date, grade, subject, tip, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return s.GetDailyTip(date, grade, subject)
}

// PurgeDailyTips removes cached tips for days before the given date (YYYY-MM-DD).
func (s *Store) PurgeDailyTips(before string) error {
	_, err := s.db.Exec(`DELETE FROM daily_tips WHERE date < ?`, before)
	return err
}
