package domain

import "time"

// Session is a server-side browser session for the admin panel. The cookie
// carries only the session id; everything else lives in this record.
type Session struct {
	ID        string    `json:"id"`
	UserID    int32     `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresOn time.Time `json:"expires_on"`
	CreatedOn time.Time `json:"created_on"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresOn)
}
