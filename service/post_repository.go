package service

// PostRepository is the full post surface the feed view-model talks to.
type PostRepository struct {
	*FeedpostService
	*PostActionsService
}

func NewPostRepository(feedpost *FeedpostService, actions *PostActionsService) *PostRepository {
	return &PostRepository{
		FeedpostService:    feedpost,
		PostActionsService: actions,
	}
}
