package models

import (
	"github.com/google/uuid"
)

type FeedPostModel struct {
	PostId    string         `bson:"_id"`
	UserId    string         `bson:"userId"`
	UserName  string         `bson:"userName"`
	ImageUrl  string         `bson:"imageUrl"`
	LikeCount int64          `bson:"likeCount"`
	LikedBy   []string       `bson:"likedBy"`
	SavedBy   []string       `bson:"savedBy"`
	Comments  []CommentModel `bson:"comments"`
	CreatedOn int64          `bson:"createdOn"`
}

func (m *FeedPostModel) Id() string {
	if len(m.PostId) == 0 {
		m.PostId = uuid.NewString()
	}
	return m.PostId
}
