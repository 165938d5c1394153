package domain

// Session is the authenticated identity for one Telegram chat. Both fields
// are persisted together; a partial session is never valid.
type Session struct {
	AccessToken string
	UserID      string
}

func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != "" && s.UserID != ""
}
