package identity

import (
	"context"
	"sync"

	"github.com/Kotlang/photoFeedGo/logger"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type SessionEventType int

const (
	SignedUp SessionEventType = iota
	SignedIn
	ProfileUpdated
	SignedOut
)

func (t SessionEventType) String() string {
	switch t {
	case SignedUp:
		return "signed_up"
	case SignedIn:
		return "signed_in"
	case ProfileUpdated:
		return "profile_updated"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

type SessionEvent struct {
	Type    SessionEventType
	Session *Session
}

// SessionStore is the current-session accessor. It remembers the sessions
// it has seen by bearer token and tells subscribers about every transition.
type SessionStore struct {
	provider Provider

	mu           sync.RWMutex
	sessions     map[string]*Session
	listeners    map[int]func(SessionEvent)
	nextListener int
}

func NewSessionStore(provider Provider) *SessionStore {
	return &SessionStore{
		provider:  provider,
		sessions:  make(map[string]*Session),
		listeners: make(map[int]func(SessionEvent)),
	}
}

// Subscribe registers fn for every session transition. The returned func
// removes it.
func (s *SessionStore) Subscribe(fn func(SessionEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *SessionStore) SignUp(ctx context.Context, req *SignUpRequest) (*Session, error) {
	session, err := s.provider.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(session.DisplayName) == 0 {
		session.DisplayName = req.DisplayName
	}

	s.remember(session)
	s.publish(SessionEvent{Type: SignedUp, Session: session})
	return session, nil
}

func (s *SessionStore) SignIn(ctx context.Context, req *SignInRequest) (*Session, error) {
	session, err := s.provider.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}

	s.remember(session)
	s.publish(SessionEvent{Type: SignedIn, Session: session})
	return session, nil
}

// Resolve maps the bearer token in ctx to a session, asking the provider
// only for tokens it has not seen.
func (s *SessionStore) Resolve(ctx context.Context) (*Session, error) {
	token, err := grpc_auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}

	s.mu.RLock()
	cached, ok := s.sessions[token]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	session, err := s.provider.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	session.Token = token

	s.remember(session)
	return session, nil
}

func (s *SessionStore) SignOut(ctx context.Context) error {
	session, err := s.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := s.provider.SignOut(ctx); err != nil {
		logger.Error("Error signing out", zap.String("userId", session.UserId), zap.Error(err))
		return err
	}

	s.mu.Lock()
	delete(s.sessions, session.Token)
	s.mu.Unlock()

	s.publish(SessionEvent{Type: SignedOut, Session: session})
	return nil
}

func (s *SessionStore) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Session, error) {
	current, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.provider.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(updated.UserId) == 0 {
		updated.UserId = current.UserId
	}
	if len(updated.Email) == 0 {
		updated.Email = current.Email
	}
	updated.Token = current.Token

	s.remember(updated)
	s.publish(SessionEvent{Type: ProfileUpdated, Session: updated})
	return updated, nil
}

func (s *SessionStore) remember(session *Session) {
	if len(session.Token) == 0 {
		return
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
}

func (s *SessionStore) publish(event SessionEvent) {
	s.mu.RLock()
	listeners := make([]func(SessionEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	logger.Info("Session changed",
		zap.String("event", event.Type.String()),
		zap.String("userId", event.Session.UserId))

	for _, fn := range listeners {
		fn(event)
	}
}
