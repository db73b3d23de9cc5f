package models

// Views and requests exchanged with the feed view-model and the HTTP surface.

type CommentView struct {
	CommentId string        `json:"id"`
	UserId    string        `json:"userId"`
	UserName  string        `json:"userName"`
	Content   string        `json:"content"`
	CreatedOn int64         `json:"createdOn"`
	Replies   []CommentView `json:"replies"`
}

type PostView struct {
	PostId      string        `json:"id"`
	UserId      string        `json:"userId"`
	UserName    string        `json:"userName"`
	ImageUrl    string        `json:"imageUrl"`
	LikeCount   int64         `json:"likeCount"`
	LikedByUser bool          `json:"likedByUser"`
	CreatedOn   int64         `json:"createdOn"`
	Comments    []CommentView `json:"comments" copier:"-"`
	SavedBy     []string      `json:"savedBy"`
}

type FeedPage struct {
	Posts  []*PostView `json:"posts"`
	Cursor string      `json:"cursor,omitempty"`
}

type FeedRequest struct {
	Cursor    string `json:"cursor"`
	PageSize  int64  `json:"pageSize" validate:"gte=0,lte=10"`
	CreatedBy string `json:"createdBy"`
	SavedBy   string `json:"savedBy"`
}

type CreatePostRequest struct {
	ImageUrl string `json:"imageUrl" validate:"required,url"`
}

// CommentRequest carries an optional client minted CommentId so an
// optimistic copy can be matched with what was stored.
type CommentRequest struct {
	CommentId string `json:"commentId" validate:"omitempty,uuid"`
	Content   string `json:"content" validate:"required"`
}

type MediaUploadRequest struct {
	MediaExtension string `json:"mediaExtension" validate:"required,alphanum,max=5"`
}

type MediaUploadUrl struct {
	UploadUrl string `json:"uploadUrl"`
	MediaUrl  string `json:"mediaUrl"`
}

// Clone returns a copy that shares no slices with p.
func (p *PostView) Clone() *PostView {
	clone := *p
	clone.SavedBy = append([]string{}, p.SavedBy...)
	clone.Comments = cloneComments(p.Comments)
	return &clone
}

func cloneComments(comments []CommentView) []CommentView {
	cloned := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		c.Replies = cloneComments(c.Replies)
		cloned = append(cloned, c)
	}
	return cloned
}
