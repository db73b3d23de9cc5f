package feed

import (
	"sync"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"go.uber.org/zap"
)

// Registry hosts one FeedViewModel per signed-in user.
type Registry struct {
	repo     PostRepository
	notifier Notifier
	pageSize int64

	mu         sync.Mutex
	viewModels map[string]*FeedViewModel
}

func NewRegistry(repo PostRepository, notifier Notifier, pageSize int64) *Registry {
	return &Registry{
		repo:       repo,
		notifier:   notifier,
		pageSize:   pageSize,
		viewModels: make(map[string]*FeedViewModel),
	}
}

// ForSession returns the user's view-model, creating it on first use.
func (r *Registry) ForSession(session *identity.Session) *FeedViewModel {
	r.mu.Lock()
	vm, ok := r.viewModels[session.UserId]
	if !ok {
		vm = NewFeedViewModel(r.repo, session, r.notifier, r.pageSize)
		r.viewModels[session.UserId] = vm
	}
	r.mu.Unlock()

	if ok && vm.Session() != session {
		vm.UpdateSession(session)
	}
	return vm
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewModels)
}

// OnSessionEvent is subscribed to the session store.
func (r *Registry) OnSessionEvent(event identity.SessionEvent) {
	switch event.Type {
	case identity.SignedOut:
		r.mu.Lock()
		delete(r.viewModels, event.Session.UserId)
		r.mu.Unlock()
		logger.Debug("Dropped feed", zap.String("userId", event.Session.UserId))
	case identity.ProfileUpdated:
		r.mu.Lock()
		vm, ok := r.viewModels[event.Session.UserId]
		r.mu.Unlock()
		if ok {
			vm.UpdateSession(event.Session)
		}
	}
}
