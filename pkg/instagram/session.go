package instagram

import "fmt"

// Session is the credential-bearing request context for one authenticated
// Instagram session. It is immutable: every change (new claim token,
// invalidation) replaces the whole value, so concurrent readers only ever
// see a consistent snapshot.
type Session struct {
	SessionID  string
	CSRFToken  string
	DSUserID   string
	UserAgent  string
	ClaimToken string
}

// WithClaimToken returns a copy of the session carrying the new claim token.
func (s *Session) WithClaimToken(token string) *Session {
	copied := *s
	copied.ClaimToken = token
	return &copied
}

// CookieHeader renders the session cookies for the Cookie request header.
func (s *Session) CookieHeader() string {
	cookies := ""
	if s.SessionID != "" {
		cookies = "sessionid=" + s.SessionID
	}
	if s.CSRFToken != "" {
		if cookies != "" {
			cookies += "; "
		}
		cookies += "csrftoken=" + s.CSRFToken
	}
	if s.DSUserID != "" {
		if cookies != "" {
			cookies += "; "
		}
		cookies += "ds_user_id=" + s.DSUserID
	}
	return cookies
}

// Authenticated reports whether the session carries login credentials.
func (s *Session) Authenticated() bool {
	return s != nil && s.SessionID != ""
}

func (s *Session) String() string {
	if s == nil {
		return "session(anonymous)"
	}
	return fmt.Sprintf("session(user=%s, claim=%t)", s.DSUserID, s.ClaimToken != "")
}
