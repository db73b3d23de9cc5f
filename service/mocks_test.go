package service

import (
	"context"
	"time"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

func testConfig() *config.Config {
	return &config.Config{
		Tenant:         "default",
		FeedPageSize:   10,
		RequestTimeout: time.Second,
	}
}

func signedIn(userId, name string) context.Context {
	return identity.WithSession(context.Background(), &identity.Session{UserId: userId, DisplayName: name})
}

func resolved[T any](value T) (chan T, chan error) {
	resChan := make(chan T, 1)
	resChan <- value
	return resChan, make(chan error, 1)
}

func failed[T any](err error) (chan T, chan error) {
	errChan := make(chan error, 1)
	errChan <- err
	return make(chan T, 1), errChan
}

func done(err error) chan error {
	errChan := make(chan error, 1)
	errChan <- err
	return errChan
}

type MockSocialDb struct {
	feedPost    *MockFeedPostRepository
	userProfile *MockUserProfileRepository
	socialStats *MockSocialStatsRepository
}

func newMockSocialDb() *MockSocialDb {
	return &MockSocialDb{
		feedPost:    new(MockFeedPostRepository),
		userProfile: new(MockUserProfileRepository),
		socialStats: new(MockSocialStatsRepository),
	}
}

func (m *MockSocialDb) FeedPost() db.FeedPostRepositoryInterface { return m.feedPost }
func (m *MockSocialDb) UserProfile() db.UserProfileRepositoryInterface { return m.userProfile }
func (m *MockSocialDb) SocialStats() db.SocialStatsRepositoryInterface { return m.socialStats }

type MockFeedPostRepository struct {
	mock.Mock
}

func (m *MockFeedPostRepository) Save(ctx context.Context, model db.Model) chan error {
	return m.Called(model).Get(0).(chan error)
}

func (m *MockFeedPostRepository) FindOneById(ctx context.Context, id string) (chan *models.FeedPostModel, chan error) {
	args := m.Called(id)
	return args.Get(0).(chan *models.FeedPostModel), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) IsExistsById(ctx context.Context, id string) (chan bool, chan error) {
	args := m.Called(id)
	return args.Get(0).(chan bool), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) DeleteById(ctx context.Context, id string) (chan int64, chan error) {
	args := m.Called(id)
	return args.Get(0).(chan int64), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) GetFeed(ctx context.Context, feedFilters db.FeedFilters, after *db.FeedCursor, pageSize int64) (chan []models.FeedPostModel, chan error) {
	args := m.Called(feedFilters, after, pageSize)
	return args.Get(0).(chan []models.FeedPostModel), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) AddLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, userId)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) RemoveLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, userId)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) AddSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, userId)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) RemoveSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, userId)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) PushComment(ctx context.Context, postId string, comment *models.CommentModel) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, comment)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

func (m *MockFeedPostRepository) PushReply(ctx context.Context, postId, parentCommentId string, reply *models.CommentModel) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(postId, parentCommentId, reply)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

type MockSocialStatsRepository struct {
	mock.Mock
}

func (m *MockSocialStatsRepository) GetStats(ctx context.Context, userId string) (chan *models.SocialStatsModel, chan error) {
	args := m.Called(userId)
	return args.Get(0).(chan *models.SocialStatsModel), args.Get(1).(chan error)
}

func (m *MockSocialStatsRepository) UpdatePostCount(ctx context.Context, userId string, posts int32) chan error {
	return m.Called(userId, posts).Get(0).(chan error)
}

func (m *MockSocialStatsRepository) UpdateCommentsCount(ctx context.Context, userId string, comments int32) chan error {
	return m.Called(userId, comments).Get(0).(chan error)
}

type MockUserProfileRepository struct {
	mock.Mock
}

func (m *MockUserProfileRepository) Save(ctx context.Context, model db.Model) chan error {
	return m.Called(model).Get(0).(chan error)
}

func (m *MockUserProfileRepository) FindOneById(ctx context.Context, id string) (chan *models.UserProfileModel, chan error) {
	args := m.Called(id)
	return args.Get(0).(chan *models.UserProfileModel), args.Get(1).(chan error)
}

func (m *MockUserProfileRepository) UpdateDisplayName(ctx context.Context, userId, displayName string) (chan *mongo.UpdateResult, chan error) {
	args := m.Called(userId, displayName)
	return args.Get(0).(chan *mongo.UpdateResult), args.Get(1).(chan error)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) GetPresignedUrlForPosts(tenant, userId, extension string) (string, string, error) {
	args := m.Called(tenant, userId, extension)
	return args.String(0), args.String(1), args.Error(2)
}
