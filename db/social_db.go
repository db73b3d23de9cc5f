package db

import (
	"context"

	"github.com/Kotlang/photoFeedGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SocialDbInterface interface {
	FeedPost() FeedPostRepositoryInterface
	UserProfile() UserProfileRepositoryInterface
	SocialStats() SocialStatsRepositoryInterface
}

// SocialDb hands out repositories over the tenant's collections.
type SocialDb struct {
	database *mongo.Database
	tenant   string
}

func NewSocialDb(database *mongo.Database, tenant string) *SocialDb {
	return &SocialDb{database: database, tenant: tenant}
}

func (db *SocialDb) FeedPost() FeedPostRepositoryInterface {
	return db.feedPost()
}

func (db *SocialDb) feedPost() *FeedPostRepository {
	repo := AbstractRepository[models.FeedPostModel]{
		Collection: db.database.Collection("feed_post_" + db.tenant),
	}
	return &FeedPostRepository{repo}
}

func (db *SocialDb) UserProfile() UserProfileRepositoryInterface {
	repo := AbstractRepository[models.UserProfileModel]{
		Collection: db.database.Collection("user_profile_" + db.tenant),
	}
	return &UserProfileRepository{repo}
}

func (db *SocialDb) SocialStats() SocialStatsRepositoryInterface {
	repo := AbstractRepository[models.SocialStatsModel]{
		Collection: db.database.Collection("social_stats_" + db.tenant),
	}
	return &SocialStatsRepository{repo}
}

// EnsureIndexes creates the indexes the feed queries sort and filter on.
func (db *SocialDb) EnsureIndexes(ctx context.Context) error {
	_, err := db.feedPost().Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdOn", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("feed_recency"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdOn", Value: -1}},
			Options: options.Index().SetName("feed_by_author"),
		},
		{
			Keys:    bson.D{{Key: "savedBy", Value: 1}, {Key: "createdOn", Value: -1}},
			Options: options.Index().SetName("feed_by_saver"),
		},
	})
	return err
}
