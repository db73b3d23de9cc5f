package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func storedPosts(n int) []models.FeedPostModel {
	posts := make([]models.FeedPostModel, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, models.FeedPostModel{
			PostId:    fmt.Sprintf("p%02d", i),
			UserId:    "u2",
			UserName:  "Bo",
			ImageUrl:  "https://img.example.com/" + fmt.Sprint(i),
			LikeCount: 1,
			LikedBy:   []string{"u1"},
			SavedBy:   []string{},
			CreatedOn: int64(1000 - i),
		})
	}
	return posts
}

func TestListPostsFullPageReturnsCursor(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	socialDb.feedPost.On("GetFeed", db.FeedFilters{}, (*db.FeedCursor)(nil), int64(10)).
		Return(resolved(storedPosts(10)))

	page, err := svc.ListPosts(signedIn("u1", "Ann"), &models.FeedRequest{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 10)
	assert.True(t, page.Posts[0].LikedByUser)
	assert.Equal(t, "p00", page.Posts[0].PostId)
	assert.Equal(t, int64(1000), page.Posts[0].CreatedOn)
	assert.NotNil(t, page.Posts[0].Comments)

	cursor, err := db.DecodeFeedCursor(page.Cursor)
	require.NoError(t, err)
	assert.Equal(t, "p09", cursor.PostId)
	assert.Equal(t, int64(991), cursor.CreatedOn)
}

func TestListPostsShortPageHasNoCursor(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	after := &db.FeedCursor{CreatedOn: 991, PostId: "p09"}
	socialDb.feedPost.On("GetFeed", db.FeedFilters{SavedBy: "u1"}, after, int64(10)).
		Return(resolved(storedPosts(5)))

	page, err := svc.ListPosts(context.Background(), &models.FeedRequest{Cursor: after.Encode(), SavedBy: "u1"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 5)
	assert.Empty(t, page.Cursor)
	assert.False(t, page.Posts[0].LikedByUser, "anonymous viewers never see their like")
}

func TestListPostsRejectsBadInput(t *testing.T) {
	svc := NewFeedpostService(newMockSocialDb(), nil, testConfig())

	_, err := svc.ListPosts(context.Background(), &models.FeedRequest{Cursor: "%%%"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.ListPosts(context.Background(), &models.FeedRequest{PageSize: 50})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListPostsStoreFailureIsUnavailable(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	socialDb.feedPost.On("GetFeed", mock.Anything, mock.Anything, mock.Anything).
		Return(failed[[]models.FeedPostModel](errors.New("connection reset")))

	_, err := svc.ListPosts(context.Background(), &models.FeedRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestGetPostNotFound(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	socialDb.feedPost.On("FindOneById", "missing").Return(failed[*models.FeedPostModel](mongo.ErrNoDocuments))

	_, err := svc.GetPost(context.Background(), "missing")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetPostGivesUpWhenStoreNeverAnswers(t *testing.T) {
	socialDb := newMockSocialDb()
	cfg := testConfig()
	cfg.RequestTimeout = 5 * time.Millisecond
	svc := NewFeedpostService(socialDb, nil, cfg)

	socialDb.feedPost.On("FindOneById", "p1").
		Return(make(chan *models.FeedPostModel, 1), make(chan error, 1))

	start := time.Now()
	_, err := svc.GetPost(context.Background(), "p1")
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestCreatePost(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	socialDb.feedPost.On("Save", mock.AnythingOfType("*models.FeedPostModel")).Return(done(nil))
	socialDb.socialStats.On("UpdatePostCount", "u1", int32(1)).Return(done(nil))

	post, err := svc.CreatePost(signedIn("u1", "Ann"), &models.CreatePostRequest{ImageUrl: "https://img.example.com/x.jpg"})
	require.NoError(t, err)

	assert.NotEmpty(t, post.PostId)
	assert.Equal(t, "u1", post.UserId)
	assert.Equal(t, "Ann", post.UserName)
	assert.Equal(t, "https://img.example.com/x.jpg", post.ImageUrl)
	assert.Zero(t, post.LikeCount)
	assert.False(t, post.LikedByUser)
	assert.Empty(t, post.Comments)
	assert.Empty(t, post.SavedBy)
	assert.NotZero(t, post.CreatedOn)

	saved := socialDb.feedPost.Calls[0].Arguments.Get(0).(*models.FeedPostModel)
	assert.NotNil(t, saved.LikedBy)
	assert.NotNil(t, saved.Comments)
	socialDb.socialStats.AssertExpectations(t)
}

func TestCreatePostWithoutNameIsAnonymous(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	socialDb.feedPost.On("Save", mock.Anything).Return(done(nil))
	socialDb.socialStats.On("UpdatePostCount", "u1", int32(1)).Return(done(nil))

	post, err := svc.CreatePost(signedIn("u1", ""), &models.CreatePostRequest{ImageUrl: "https://img.example.com/x.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", post.UserName)
}

func TestCreatePostRequiresSessionAndUrl(t *testing.T) {
	socialDb := newMockSocialDb()
	svc := NewFeedpostService(socialDb, nil, testConfig())

	_, err := svc.CreatePost(context.Background(), &models.CreatePostRequest{ImageUrl: "https://img.example.com/x.jpg"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = svc.CreatePost(signedIn("u1", "Ann"), &models.CreatePostRequest{ImageUrl: "not a url"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	socialDb.feedPost.AssertNotCalled(t, "Save", mock.Anything)
}

func TestDeletePost(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		socialDb := newMockSocialDb()
		svc := NewFeedpostService(socialDb, nil, testConfig())

		socialDb.feedPost.On("FindOneById", "p1").Return(resolved(&models.FeedPostModel{PostId: "p1", UserId: "u1"}))
		socialDb.feedPost.On("DeleteById", "p1").Return(resolved(int64(1)))
		socialDb.socialStats.On("UpdatePostCount", "u1", int32(-1)).Return(done(nil))

		require.NoError(t, svc.DeletePost(signedIn("u1", "Ann"), "p1"))
		socialDb.socialStats.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		socialDb := newMockSocialDb()
		svc := NewFeedpostService(socialDb, nil, testConfig())

		socialDb.feedPost.On("FindOneById", "p1").Return(resolved(&models.FeedPostModel{PostId: "p1", UserId: "u2"}))

		err := svc.DeletePost(signedIn("u1", "Ann"), "p1")
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
		socialDb.feedPost.AssertNotCalled(t, "DeleteById", mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewFeedpostService(newMockSocialDb(), nil, testConfig())
		assert.Equal(t, codes.Unauthenticated, status.Code(svc.DeletePost(context.Background(), "p1")))
	})
}

func TestGetMediaUploadUrl(t *testing.T) {
	media := new(MockMediaStore)
	svc := NewFeedpostService(newMockSocialDb(), media, testConfig())

	media.On("GetPresignedUrlForPosts", "default", "u1", "jpg").
		Return("https://upload.example.com/signed", "https://cdn.example.com/default/posts/u1/a.jpg", nil)

	res, err := svc.GetMediaUploadUrl(signedIn("u1", "Ann"), &models.MediaUploadRequest{MediaExtension: "jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example.com/signed", res.UploadUrl)
	assert.Equal(t, "https://cdn.example.com/default/posts/u1/a.jpg", res.MediaUrl)

	_, err = svc.GetMediaUploadUrl(signedIn("u1", "Ann"), &models.MediaUploadRequest{MediaExtension: "../x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestStoreErrorClassification(t *testing.T) {
	assert.Equal(t, codes.NotFound, status.Code(storeError(mongo.ErrNoDocuments, "gone")))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(storeError(context.DeadlineExceeded, "gone")))
	assert.Equal(t, codes.Unavailable, status.Code(storeError(errors.New("socket closed"), "gone")))
	assert.Equal(t, codes.PermissionDenied, status.Code(storeError(status.Error(codes.PermissionDenied, "no"), "gone")))
}
