package models

import "time"

// Session is an academic session (e.g. "2025/2026") within a school.
type Session struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Current   bool      `db:"current" json:"current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Term is one of the terms making up a session (First/Second/Third).
type Term struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Name      string    `db:"name" json:"name"`
	Index     int       `db:"idx" json:"index"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Current   bool      `db:"current" json:"current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TermDetail enriches Term with its session name for responses.
type TermDetail struct {
	Term
	SessionName string `db:"session_name" json:"session_name"`
}

// SessionFilter defines filters for listing sessions.
type SessionFilter struct {
	Current   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
