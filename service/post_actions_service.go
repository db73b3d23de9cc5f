package service

import (
	"context"
	"time"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/thoas/go-funk"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type PostActionsService struct {
	db      db.SocialDbInterface
	timeout time.Duration
}

func NewPostActionsService(db db.SocialDbInterface, cfg *config.Config) *PostActionsService {
	return &PostActionsService{
		db:      db,
		timeout: cfg.RequestTimeout,
	}
}

// LikePost is idempotent: liking a post twice leaves one like.
func (s *PostActionsService) LikePost(ctx context.Context, postId string) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resChan, errChan := s.db.FeedPost().AddLike(ctx, postId, session.UserId)
	res, err := await(ctx, resChan, errChan)
	if err != nil {
		return storeError(err, "Post not found.")
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// nothing matched: either the post is gone or it is already liked
	existsChan, errChan := s.db.FeedPost().IsExistsById(ctx, postId)
	exists, err := await(ctx, existsChan, errChan)
	if err != nil {
		return storeError(err, "Post not found.")
	}
	if !exists {
		return status.Error(codes.NotFound, "Post not found.")
	}
	return nil
}

func (s *PostActionsService) UnlikePost(ctx context.Context, postId string) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postChan, errChan := s.db.FeedPost().FindOneById(ctx, postId)
	post, err := await(ctx, postChan, errChan)
	if err != nil {
		logger.Error("Probably post is not found", zap.String("postId", postId), zap.Error(err))
		return storeError(err, "Post not found.")
	}

	if !funk.ContainsString(post.LikedBy, session.UserId) {
		logger.Info("Post is not liked by user", zap.String("postId", postId), zap.String("userId", session.UserId))
		return nil
	}

	resChan, errChan := s.db.FeedPost().RemoveLike(ctx, postId, session.UserId)
	if _, err := await(ctx, resChan, errChan); err != nil {
		return storeError(err, "Post not found.")
	}
	return nil
}

func (s *PostActionsService) SavePost(ctx context.Context, postId string) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resChan, errChan := s.db.FeedPost().AddSave(ctx, postId, session.UserId)
	return matchedOrNotFound(ctx, resChan, errChan)
}

func (s *PostActionsService) UnsavePost(ctx context.Context, postId string) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resChan, errChan := s.db.FeedPost().RemoveSave(ctx, postId, session.UserId)
	return matchedOrNotFound(ctx, resChan, errChan)
}

func (s *PostActionsService) AddComment(ctx context.Context, postId string, req *models.CommentRequest) (*models.CommentView, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateCommentRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	comment := newComment(session.UserId, session.Name(), req)
	resChan, errChan := s.db.FeedPost().PushComment(ctx, postId, comment)
	if err := matchedOrNotFound(ctx, resChan, errChan); err != nil {
		return nil, err
	}

	s.countComment(ctx, session.UserId)
	view := toCommentView(comment)
	return &view, nil
}

// AddReply appends a reply under a top level comment of the post.
func (s *PostActionsService) AddReply(ctx context.Context, postId, parentCommentId string, req *models.CommentRequest) (*models.CommentView, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateCommentRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply := newComment(session.UserId, session.Name(), req)
	resChan, errChan := s.db.FeedPost().PushReply(ctx, postId, parentCommentId, reply)
	res, err := await(ctx, resChan, errChan)
	if err != nil {
		return nil, storeError(err, "Post not found.")
	}
	if res.MatchedCount == 0 {
		return nil, status.Error(codes.NotFound, "Post not found.")
	}
	if res.ModifiedCount == 0 {
		return nil, status.Error(codes.NotFound, "Comment not found.")
	}

	s.countComment(ctx, session.UserId)
	view := toCommentView(reply)
	return &view, nil
}

func (s *PostActionsService) countComment(ctx context.Context, userId string) {
	if err := awaitErr(ctx, s.db.SocialStats().UpdateCommentsCount(ctx, userId, 1)); err != nil {
		logger.Error("Failed updating comment count", zap.String("userId", userId), zap.Error(err))
	}
}

func newComment(userId, userName string, req *models.CommentRequest) *models.CommentModel {
	return &models.CommentModel{
		CommentId: req.CommentId,
		UserId:    userId,
		UserName:  userName,
		Content:   req.Content,
		CreatedOn: time.Now().UnixMilli(),
		Replies:   []models.CommentModel{},
	}
}

func matchedOrNotFound(ctx context.Context, resChan chan *mongo.UpdateResult, errChan chan error) error {
	res, err := await(ctx, resChan, errChan)
	if err != nil {
		return storeError(err, "Post not found.")
	}
	if res.MatchedCount == 0 {
		return status.Error(codes.NotFound, "Post not found.")
	}
	return nil
}
