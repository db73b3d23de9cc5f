package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type storedPost struct {
	view    models.PostView
	likedBy []string
}

// fakeRepository is an in-memory PostRepository.
type fakeRepository struct {
	mu       sync.Mutex
	posts    []*storedPost
	failures map[string]error
	listErr  error
	gate     chan struct{}
	calls    []string
}

func newFakeRepository(n int) *fakeRepository {
	repo := &fakeRepository{failures: map[string]error{}}
	for i := 0; i < n; i++ {
		repo.posts = append(repo.posts, &storedPost{
			view: models.PostView{
				PostId:    fmt.Sprintf("p%02d", i),
				UserId:    "u2",
				UserName:  "Bo",
				ImageUrl:  fmt.Sprintf("https://img.example.com/%d.jpg", i),
				CreatedOn: int64(10000 - i),
				SavedBy:   []string{},
				Comments:  []models.CommentView{},
			},
			likedBy: []string{},
		})
	}
	return repo
}

func (r *fakeRepository) failOn(op, postId string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op+":"+postId] = err
}

func (r *fakeRepository) callCount(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(funk.Filter(r.calls, func(c string) bool {
		return strings.HasPrefix(c, prefix)
	}).([]string))
}

func (r *fakeRepository) post(postId string) *storedPost {
	for _, p := range r.posts {
		if p.view.PostId == postId {
			return p
		}
	}
	return nil
}

// begin records the call, waits on the gate and returns the stored post.
func (r *fakeRepository) begin(ctx context.Context, op, postId string) (string, *storedPost, error) {
	r.mu.Lock()
	r.calls = append(r.calls, op+":"+postId)
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}

	session, ok := identity.SessionFromContext(ctx)
	if !ok {
		return "", nil, status.Error(codes.Unauthenticated, "sign in required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failures[op+":"+postId]; ok {
		return "", nil, err
	}
	post := r.post(postId)
	if post == nil {
		return "", nil, status.Error(codes.NotFound, "Post not found.")
	}
	return session.UserId, post, nil
}

func (r *fakeRepository) ListPosts(ctx context.Context, req *models.FeedRequest) (*models.FeedPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "list:"+req.Cursor)
	if r.listErr != nil {
		return nil, r.listErr
	}

	viewer := ""
	if session, ok := identity.SessionFromContext(ctx); ok {
		viewer = session.UserId
	}

	start := 0
	if len(req.Cursor) > 0 {
		start, _ = strconv.Atoi(req.Cursor)
	}
	end := start + int(req.PageSize)
	if end > len(r.posts) {
		end = len(r.posts)
	}

	page := &models.FeedPage{Posts: []*models.PostView{}}
	for _, p := range r.posts[start:end] {
		view := p.view.Clone()
		view.LikeCount = int64(len(p.likedBy))
		view.LikedByUser = funk.ContainsString(p.likedBy, viewer)
		page.Posts = append(page.Posts, view)
	}
	if end-start == int(req.PageSize) {
		page.Cursor = strconv.Itoa(end)
	}
	return page, nil
}

func (r *fakeRepository) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.PostView, error) {
	session, ok := identity.SessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "sign in required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "create:")

	post := &storedPost{
		view: models.PostView{
			PostId:    uuid.NewString(),
			UserId:    session.UserId,
			UserName:  session.Name(),
			ImageUrl:  req.ImageUrl,
			CreatedOn: time.Now().UnixMilli(),
			SavedBy:   []string{},
			Comments:  []models.CommentView{},
		},
		likedBy: []string{},
	}
	r.posts = append([]*storedPost{post}, r.posts...)
	return post.view.Clone(), nil
}

func (r *fakeRepository) LikePost(ctx context.Context, postId string) error {
	userId, post, err := r.begin(ctx, "like", postId)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !funk.ContainsString(post.likedBy, userId) {
		post.likedBy = append(post.likedBy, userId)
	}
	return nil
}

func (r *fakeRepository) UnlikePost(ctx context.Context, postId string) error {
	userId, post, err := r.begin(ctx, "unlike", postId)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post.likedBy = funk.Filter(post.likedBy, func(id string) bool { return id != userId }).([]string)
	return nil
}

func (r *fakeRepository) SavePost(ctx context.Context, postId string) error {
	userId, post, err := r.begin(ctx, "save", postId)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !funk.ContainsString(post.view.SavedBy, userId) {
		post.view.SavedBy = append(post.view.SavedBy, userId)
	}
	return nil
}

func (r *fakeRepository) UnsavePost(ctx context.Context, postId string) error {
	userId, post, err := r.begin(ctx, "unsave", postId)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post.view.SavedBy = funk.Filter(post.view.SavedBy, func(id string) bool { return id != userId }).([]string)
	return nil
}

func (r *fakeRepository) AddComment(ctx context.Context, postId string, req *models.CommentRequest) (*models.CommentView, error) {
	userId, post, err := r.begin(ctx, "comment", postId)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	comment := models.CommentView{CommentId: req.CommentId, UserId: userId, Content: req.Content, Replies: []models.CommentView{}}
	post.view.Comments = append(post.view.Comments, comment)
	return &comment, nil
}

func (r *fakeRepository) AddReply(ctx context.Context, postId, parentCommentId string, req *models.CommentRequest) (*models.CommentView, error) {
	userId, post, err := r.begin(ctx, "reply", postId)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	parent := findComment(post.view.Comments, parentCommentId)
	if parent == nil {
		return nil, status.Error(codes.NotFound, "Comment not found.")
	}
	reply := models.CommentView{CommentId: req.CommentId, UserId: userId, Content: req.Content, Replies: []models.CommentView{}}
	parent.Replies = append(parent.Replies, reply)
	return &reply, nil
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (n *recordingNotifier) Notify(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification{}, n.notifications...)
}
