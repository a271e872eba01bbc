package domain

import "time"

// Session is one authenticated device context. LineageID marks the current
// valid link in the session's refresh-token rotation chain.
type Session struct {
	ID         string
	AccountID  string
	LineageID  string
	IPAddress  string
	UserAgent  string
	Terminated bool
	LastSeenAt time.Time
	CreatedAt  time.Time
}

type LoginAttempt struct {
	ID          string
	Identifier  string
	IPAddress   string
	AttemptTime time.Time
	Successful  bool
}
