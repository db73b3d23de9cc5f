package main

import (
	"context"

	"github.com/Kotlang/photoFeedGo/config"
	"github.com/Kotlang/photoFeedGo/db"
	"github.com/Kotlang/photoFeedGo/feed"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/s3client"
	"github.com/Kotlang/photoFeedGo/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Inject struct {
	Config      *config.Config
	MongoClient *mongo.Client
	SocialDb    *db.SocialDb

	AuthClient   *identity.AuthClient
	SessionStore *identity.SessionStore

	FeedPostService    *service.FeedpostService
	PostActionsService *service.PostActionsService
	SocialStatsService *service.SocialStatsService
	UserProfileService *service.UserProfileService
	PostRepository     *service.PostRepository

	FeedRegistry *feed.Registry
}

func NewInject(ctx context.Context, cfg *config.Config) (*Inject, error) {
	inj := &Inject{Config: cfg}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoUri))
	if err != nil {
		return nil, err
	}
	inj.MongoClient = client
	inj.SocialDb = db.NewSocialDb(client.Database(cfg.DbName), cfg.Tenant)

	if err := inj.SocialDb.EnsureIndexes(ctx); err != nil {
		logger.Error("Failed ensuring indexes", zap.Error(err))
	}

	mediaStore, err := s3client.NewS3Client(cfg.S3Region, cfg.S3Bucket, cfg.MediaUrlPrefix)
	if err != nil {
		return nil, err
	}

	inj.AuthClient = identity.NewAuthClient(cfg.AuthTarget)
	inj.SessionStore = identity.NewSessionStore(inj.AuthClient)

	inj.FeedPostService = service.NewFeedpostService(inj.SocialDb, mediaStore, cfg)
	inj.PostActionsService = service.NewPostActionsService(inj.SocialDb, cfg)
	inj.SocialStatsService = service.NewSocialStatsService(inj.SocialDb, cfg)
	inj.UserProfileService = service.NewUserProfileService(inj.SocialDb, cfg)
	inj.PostRepository = service.NewPostRepository(inj.FeedPostService, inj.PostActionsService)

	inj.FeedRegistry = feed.NewRegistry(inj.PostRepository, feed.LogNotifier{}, cfg.FeedPageSize)

	inj.SessionStore.Subscribe(inj.UserProfileService.OnSessionEvent)
	inj.SessionStore.Subscribe(inj.FeedRegistry.OnSessionEvent)
	return inj, nil
}

func (inj *Inject) Close(ctx context.Context) {
	if err := inj.AuthClient.Close(); err != nil {
		logger.Error("Failed closing auth client", zap.Error(err))
	}
	if err := inj.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("Failed disconnecting mongo", zap.Error(err))
	}
}
