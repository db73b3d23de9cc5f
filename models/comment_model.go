package models

import (
	"github.com/google/uuid"
)

// CommentModel is embedded in FeedPostModel.Comments. Replies are only ever
// populated one level deep.
type CommentModel struct {
	CommentId string         `bson:"_id"`
	UserId    string         `bson:"userId"`
	UserName  string         `bson:"userName"`
	Content   string         `bson:"content"`
	CreatedOn int64          `bson:"createdOn"`
	Replies   []CommentModel `bson:"replies"`
}

func (c *CommentModel) Id() string {
	if len(c.CommentId) == 0 {
		c.CommentId = uuid.NewString()
	}
	return c.CommentId
}
