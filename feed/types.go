package feed

import (
	"context"

	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Filter string

const (
	FilterAll   Filter = "all"
	FilterSaved Filter = "saved"
	FilterMine  Filter = "mine"
)

func ParseFilter(value string) (Filter, error) {
	switch f := Filter(value); f {
	case FilterAll, FilterSaved, FilterMine:
		return f, nil
	case "":
		return FilterAll, nil
	}
	return "", status.Errorf(codes.InvalidArgument, "unknown filter %q", value)
}

// PostRepository is what the view-model needs from the post service.
type PostRepository interface {
	ListPosts(ctx context.Context, req *models.FeedRequest) (*models.FeedPage, error)
	CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.PostView, error)
	LikePost(ctx context.Context, postId string) error
	UnlikePost(ctx context.Context, postId string) error
	SavePost(ctx context.Context, postId string) error
	UnsavePost(ctx context.Context, postId string) error
	AddComment(ctx context.Context, postId string, req *models.CommentRequest) (*models.CommentView, error)
	AddReply(ctx context.Context, postId, parentCommentId string, req *models.CommentRequest) (*models.CommentView, error)
}

// Notification is a transient message for the user about a failed action.
type Notification struct {
	Kind    codes.Code `json:"kind"`
	PostId  string     `json:"postId,omitempty"`
	Message string     `json:"message"`
}

type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	logger.Warn("Feed action failed",
		zap.String("kind", n.Kind.String()),
		zap.String("postId", n.PostId),
		zap.String("message", n.Message))
}

// State is a point in time copy of everything the view-model exposes.
type State struct {
	Posts   []*models.PostView `json:"posts"`
	Filter  Filter             `json:"filter"`
	Loading bool               `json:"loading"`
	HasMore bool               `json:"hasMore"`
	Pending []string           `json:"pending"`
	Version uint64             `json:"version"`
}

type mutationGroup int

const (
	likeGroup mutationGroup = iota
	saveGroup
	commentGroup
)

func (g mutationGroup) String() string {
	switch g {
	case likeGroup:
		return "like"
	case saveGroup:
		return "save"
	case commentGroup:
		return "comment"
	}
	return "unknown"
}

type mutationKey struct {
	postId string
	group  mutationGroup
}

func notificationFor(err error, postId string) Notification {
	st := status.Convert(err)
	return Notification{Kind: st.Code(), PostId: postId, Message: st.Message()}
}
