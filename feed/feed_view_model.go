package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

// FeedViewModel holds one user's paginated view of the feed and applies their
// intents optimistically. It is safe for concurrent use; repository calls are
// made without holding the lock.
type FeedViewModel struct {
	repo     PostRepository
	notifier Notifier
	pageSize int64

	mu        sync.Mutex
	session   *identity.Session
	posts     []*models.PostView
	cursor    string
	loading   bool
	hasMore   bool
	filter    Filter
	revision  uint64
	revisions map[mutationKey]uint64
	pending   map[mutationKey]bool

	listeners    map[int]func(State)
	nextListener int
	version      uint64

	// emitMu keeps deliveries in snapshot order.
	emitMu sync.Mutex
}

func NewFeedViewModel(repo PostRepository, session *identity.Session, notifier Notifier, pageSize int64) *FeedViewModel {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	return &FeedViewModel{
		repo:      repo,
		notifier:  notifier,
		pageSize:  pageSize,
		session:   session,
		posts:     []*models.PostView{},
		hasMore:   true,
		filter:    FilterAll,
		revisions: make(map[mutationKey]uint64),
		pending:   make(map[mutationKey]bool),
		listeners: make(map[int]func(State)),
	}
}

// LoadMore appends the next page. It does nothing while a load is running or
// once the feed is exhausted.
func (vm *FeedViewModel) LoadMore(ctx context.Context) error {
	vm.mu.Lock()
	if vm.loading || !vm.hasMore {
		vm.mu.Unlock()
		return nil
	}
	vm.loading = true
	cursor := vm.cursor
	ctx = vm.callContext(ctx)
	vm.mu.Unlock()
	vm.emit()

	page, err := vm.repo.ListPosts(ctx, &models.FeedRequest{Cursor: cursor, PageSize: vm.pageSize})

	vm.mu.Lock()
	vm.loading = false
	if err == nil {
		for _, post := range page.Posts {
			if vm.indexOf(post.PostId) >= 0 {
				continue
			}
			vm.posts = append(vm.posts, post)
		}
		vm.cursor = page.Cursor
		vm.hasMore = int64(len(page.Posts)) == vm.pageSize
	}
	vm.mu.Unlock()

	if err != nil {
		logger.Error("Failed loading feed page", zap.String("cursor", cursor), zap.Error(err))
		vm.notifier.Notify(notificationFor(err, ""))
	}
	vm.emit()
	return err
}

// Refresh replaces the feed with its first page. Failures of intents still in
// flight no longer roll back the reloaded posts.
func (vm *FeedViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	if vm.loading {
		vm.mu.Unlock()
		return nil
	}
	vm.loading = true
	ctx = vm.callContext(ctx)
	vm.mu.Unlock()
	vm.emit()

	page, err := vm.repo.ListPosts(ctx, &models.FeedRequest{PageSize: vm.pageSize})

	vm.mu.Lock()
	vm.loading = false
	if err == nil {
		vm.posts = append([]*models.PostView{}, page.Posts...)
		vm.cursor = page.Cursor
		vm.hasMore = int64(len(page.Posts)) == vm.pageSize

		vm.revision++
		for key := range vm.revisions {
			vm.revisions[key] = vm.revision
		}
	}
	vm.mu.Unlock()

	if err != nil {
		vm.notifier.Notify(notificationFor(err, ""))
	}
	vm.emit()
	return err
}

// Posts returns copies of the posts that pass the current filter.
func (vm *FeedViewModel) Posts() []*models.PostView {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.visiblePosts()
}

func (vm *FeedViewModel) SetFilter(filter Filter) {
	vm.mu.Lock()
	vm.filter = filter
	vm.mu.Unlock()
	vm.emit()
}

func (vm *FeedViewModel) Filter() Filter {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

func (vm *FeedViewModel) Loading() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loading
}

func (vm *FeedViewModel) HasMore() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.hasMore
}

func (vm *FeedViewModel) Session() *identity.Session {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.session
}

// UpdateSession swaps in the latest session, e.g. after a rename.
func (vm *FeedViewModel) UpdateSession(session *identity.Session) {
	vm.mu.Lock()
	vm.session = session
	vm.mu.Unlock()
	vm.emit()
}

func (vm *FeedViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state()
}

// Subscribe registers fn for every state change. The returned func removes it.
// States arrive one at a time and in order; fn must not call back into vm.
func (vm *FeedViewModel) Subscribe(fn func(State)) func() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	id := vm.nextListener
	vm.nextListener++
	vm.listeners[id] = fn

	return func() {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		delete(vm.listeners, id)
	}
}

func (vm *FeedViewModel) state() State {
	pending := []string{}
	for key := range vm.pending {
		pending = append(pending, key.postId+"/"+key.group.String())
	}
	sort.Strings(pending)

	return State{
		Posts:   vm.visiblePosts(),
		Filter:  vm.filter,
		Loading: vm.loading,
		HasMore: vm.hasMore,
		Pending: pending,
		Version: vm.version,
	}
}

func (vm *FeedViewModel) visiblePosts() []*models.PostView {
	userId := ""
	if vm.session != nil {
		userId = vm.session.UserId
	}

	visible := vm.posts
	switch vm.filter {
	case FilterSaved:
		visible = funk.Filter(vm.posts, func(p *models.PostView) bool {
			return len(userId) > 0 && funk.ContainsString(p.SavedBy, userId)
		}).([]*models.PostView)
	case FilterMine:
		visible = funk.Filter(vm.posts, func(p *models.PostView) bool {
			return len(userId) > 0 && p.UserId == userId
		}).([]*models.PostView)
	}

	return funk.Map(visible, func(p *models.PostView) *models.PostView {
		return p.Clone()
	}).([]*models.PostView)
}

func (vm *FeedViewModel) emit() {
	vm.emitMu.Lock()
	defer vm.emitMu.Unlock()

	vm.mu.Lock()
	if len(vm.listeners) == 0 {
		vm.mu.Unlock()
		return
	}
	vm.version++
	state := vm.state()
	listeners := make([]func(State), 0, len(vm.listeners))
	for _, fn := range vm.listeners {
		listeners = append(listeners, fn)
	}
	vm.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// callContext must be called with mu held.
func (vm *FeedViewModel) callContext(ctx context.Context) context.Context {
	if vm.session == nil {
		return ctx
	}
	return identity.WithSession(ctx, vm.session)
}

// indexOf must be called with mu held.
func (vm *FeedViewModel) indexOf(postId string) int {
	for i, p := range vm.posts {
		if p.PostId == postId {
			return i
		}
	}
	return -1
}

func (vm *FeedViewModel) find(postId string) *models.PostView {
	if i := vm.indexOf(postId); i >= 0 {
		return vm.posts[i]
	}
	return nil
}
