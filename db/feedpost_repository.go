package db

import (
	"context"

	"github.com/Kotlang/photoFeedGo/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedFilters struct {
	CreatedBy string
	SavedBy   string
}

type FeedPostRepositoryInterface interface {
	Save(ctx context.Context, model Model) chan error
	FindOneById(ctx context.Context, id string) (chan *models.FeedPostModel, chan error)
	IsExistsById(ctx context.Context, id string) (chan bool, chan error)
	DeleteById(ctx context.Context, id string) (chan int64, chan error)

	GetFeed(ctx context.Context, feedFilters FeedFilters, after *FeedCursor, pageSize int64) (chan []models.FeedPostModel, chan error)
	AddLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error)
	RemoveLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error)
	AddSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error)
	RemoveSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error)
	PushComment(ctx context.Context, postId string, comment *models.CommentModel) (chan *mongo.UpdateResult, chan error)
	PushReply(ctx context.Context, postId, parentCommentId string, reply *models.CommentModel) (chan *mongo.UpdateResult, chan error)
}

type FeedPostRepository struct {
	AbstractRepository[models.FeedPostModel]
}

func (r *FeedPostRepository) GetFeed(
	ctx context.Context,
	feedFilters FeedFilters,
	after *FeedCursor,
	pageSize int64) (chan []models.FeedPostModel, chan error) {

	filters := bson.M{}
	if len(feedFilters.CreatedBy) > 0 {
		filters["userId"] = feedFilters.CreatedBy
	}
	if len(feedFilters.SavedBy) > 0 {
		filters["savedBy"] = feedFilters.SavedBy
	}

	if after != nil {
		filters["$or"] = bson.A{
			bson.M{"createdOn": bson.M{"$lt": after.CreatedOn}},
			bson.M{"createdOn": after.CreatedOn, "_id": bson.M{"$lt": after.PostId}},
		}
	}

	sort := bson.D{
		{Key: "createdOn", Value: -1},
		{Key: "_id", Value: -1},
	}

	return r.Find(ctx, filters, sort, pageSize, 0)
}

// AddLike only matches when the user is not already in likedBy, so the
// counter and the membership set move together.
func (r *FeedPostRepository) AddLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	return r.UpdateOne(ctx,
		bson.M{"_id": postId, "likedBy": bson.M{"$ne": userId}},
		bson.M{
			"$inc":      bson.M{"likeCount": 1},
			"$addToSet": bson.M{"likedBy": userId},
		})
}

func (r *FeedPostRepository) RemoveLike(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	return r.UpdateOne(ctx,
		bson.M{"_id": postId, "likedBy": userId},
		bson.M{
			"$inc":  bson.M{"likeCount": -1},
			"$pull": bson.M{"likedBy": userId},
		})
}

func (r *FeedPostRepository) AddSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	return r.UpdateOne(ctx, bson.M{"_id": postId}, bson.M{"$addToSet": bson.M{"savedBy": userId}})
}

func (r *FeedPostRepository) RemoveSave(ctx context.Context, postId, userId string) (chan *mongo.UpdateResult, chan error) {
	return r.UpdateOne(ctx, bson.M{"_id": postId}, bson.M{"$pull": bson.M{"savedBy": userId}})
}

func (r *FeedPostRepository) PushComment(ctx context.Context, postId string, comment *models.CommentModel) (chan *mongo.UpdateResult, chan error) {
	comment.Id()
	if comment.Replies == nil {
		comment.Replies = []models.CommentModel{}
	}
	return r.UpdateOne(ctx, bson.M{"_id": postId}, bson.M{"$push": bson.M{"comments": comment}})
}

// PushReply appends under the comment whose _id is parentCommentId. A matched
// post with nothing modified means the parent comment does not exist.
func (r *FeedPostRepository) PushReply(ctx context.Context, postId, parentCommentId string, reply *models.CommentModel) (chan *mongo.UpdateResult, chan error) {
	reply.Id()
	if reply.Replies == nil {
		reply.Replies = []models.CommentModel{}
	}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"parent._id": parentCommentId}},
	})
	return r.UpdateOne(ctx,
		bson.M{"_id": postId},
		bson.M{"$push": bson.M{"comments.$[parent].replies": reply}},
		opts)
}
