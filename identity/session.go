package identity

import "context"

// Session is the signed-in user as reported by the auth service.
type Session struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Token       string `json:"token,omitempty"`
}

// Name is what gets denormalized onto posts and comments.
func (s *Session) Name() string {
	if len(s.DisplayName) > 0 {
		return s.DisplayName
	}
	return "Anonymous"
}

type sessionKey struct{}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok || session == nil || len(session.UserId) == 0 {
		return nil, false
	}
	return session, true
}
