package service

import (
	"context"
	"time"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/jinzhu/copier"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxPageSize = 10

// MediaStore hands out upload urls for post images.
type MediaStore interface {
	GetPresignedUrlForPosts(tenant, userId, extension string) (string, string, error)
}

type FeedpostService struct {
	db       db.SocialDbInterface
	media    MediaStore
	tenant   string
	pageSize int64
	timeout  time.Duration
}

func NewFeedpostService(db db.SocialDbInterface, media MediaStore, cfg *config.Config) *FeedpostService {
	return &FeedpostService{
		db:       db,
		media:    media,
		tenant:   cfg.Tenant,
		pageSize: cfg.FeedPageSize,
		timeout:  cfg.RequestTimeout,
	}
}

func (s *FeedpostService) ListPosts(ctx context.Context, req *models.FeedRequest) (*models.FeedPage, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.pageSize
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	after, err := db.DecodeFeedCursor(req.Cursor)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Debug("Getting feed",
		zap.String("createdBy", req.CreatedBy),
		zap.String("savedBy", req.SavedBy),
		zap.Int64("pageSize", pageSize))

	feedChan, errChan := s.db.FeedPost().GetFeed(ctx,
		db.FeedFilters{CreatedBy: req.CreatedBy, SavedBy: req.SavedBy},
		after,
		pageSize)
	feed, err := await(ctx, feedChan, errChan)
	if err != nil {
		return nil, storeError(err, "feed not found")
	}

	viewerId := viewerIdFrom(ctx)
	page := &models.FeedPage{
		Posts: funk.Map(feed, func(x models.FeedPostModel) *models.PostView {
			return toPostView(&x, viewerId)
		}).([]*models.PostView),
	}

	// a short page is the last one
	if int64(len(feed)) == pageSize {
		last := feed[len(feed)-1]
		page.Cursor = (&db.FeedCursor{CreatedOn: last.CreatedOn, PostId: last.PostId}).Encode()
	}
	return page, nil
}

func (s *FeedpostService) GetPost(ctx context.Context, postId string) (*models.PostView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postChan, errChan := s.db.FeedPost().FindOneById(ctx, postId)
	post, err := await(ctx, postChan, errChan)
	if err != nil {
		return nil, storeError(err, "Post not found.")
	}

	return toPostView(post, viewerIdFrom(ctx)), nil
}

func (s *FeedpostService) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.PostView, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	feedPostModel := &models.FeedPostModel{
		UserId:    session.UserId,
		UserName:  session.Name(),
		ImageUrl:  req.ImageUrl,
		LikedBy:   []string{},
		SavedBy:   []string{},
		Comments:  []models.CommentModel{},
		CreatedOn: time.Now().UnixMilli(),
	}
	feedPostModel.Id()

	if err := awaitErr(ctx, s.db.FeedPost().Save(ctx, feedPostModel)); err != nil {
		return nil, storeError(err, "Post not found.")
	}

	if err := awaitErr(ctx, s.db.SocialStats().UpdatePostCount(ctx, session.UserId, 1)); err != nil {
		logger.Error("Failed updating post count", zap.String("userId", session.UserId), zap.Error(err))
	}

	logger.Info("Created post", zap.String("postId", feedPostModel.PostId), zap.String("userId", session.UserId))
	return toPostView(feedPostModel, session.UserId), nil
}

// DeletePost removes a post owned by the caller.
func (s *FeedpostService) DeletePost(ctx context.Context, postId string) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postChan, errChan := s.db.FeedPost().FindOneById(ctx, postId)
	post, err := await(ctx, postChan, errChan)
	if err != nil {
		return storeError(err, "Post not found.")
	}

	if post.UserId != session.UserId {
		return status.Error(codes.PermissionDenied, "Only the author can delete a post.")
	}

	deletedChan, errChan := s.db.FeedPost().DeleteById(ctx, postId)
	deleted, err := await(ctx, deletedChan, errChan)
	if err != nil {
		return storeError(err, "Post not found.")
	}
	if deleted == 0 {
		return status.Error(codes.NotFound, "Post not found.")
	}

	if err := awaitErr(ctx, s.db.SocialStats().UpdatePostCount(ctx, session.UserId, -1)); err != nil {
		logger.Error("Failed updating post count", zap.String("userId", session.UserId), zap.Error(err))
	}
	return nil
}

func (s *FeedpostService) GetMediaUploadUrl(ctx context.Context, req *models.MediaUploadRequest) (*models.MediaUploadUrl, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	uploadUrl, downloadUrl, err := s.media.GetPresignedUrlForPosts(s.tenant, session.UserId, req.MediaExtension)
	if err != nil {
		return nil, status.Error(codes.Unavailable, "media storage unavailable")
	}

	return &models.MediaUploadUrl{
		UploadUrl: uploadUrl,
		MediaUrl:  downloadUrl,
	}, nil
}

func viewerIdFrom(ctx context.Context) string {
	if session, ok := identity.SessionFromContext(ctx); ok {
		return session.UserId
	}
	return ""
}

func toPostView(post *models.FeedPostModel, viewerId string) *models.PostView {
	view := &models.PostView{}
	if err := copier.Copy(view, post); err != nil {
		logger.Error("Failed copying post", zap.String("postId", post.PostId), zap.Error(err))
	}

	view.LikedByUser = len(viewerId) > 0 && funk.ContainsString(post.LikedBy, viewerId)
	view.SavedBy = append([]string{}, post.SavedBy...)
	view.Comments = toCommentViews(post.Comments)
	return view
}

func toCommentViews(comments []models.CommentModel) []models.CommentView {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(&c))
	}
	return views
}

func toCommentView(comment *models.CommentModel) models.CommentView {
	return models.CommentView{
		CommentId: comment.CommentId,
		UserId:    comment.UserId,
		UserName:  comment.UserName,
		Content:   comment.Content,
		CreatedOn: comment.CreatedOn,
		Replies:   toCommentViews(comment.Replies),
	}
}
