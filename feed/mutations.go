package feed

import (
	"context"
	"strings"
	"time"

	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// patch applies an optimistic change to post and returns the func that undoes
// it. A nil undo means there was nothing to change.
type patch func(post *models.PostView) (undo func(post *models.PostView), err error)

func (vm *FeedViewModel) Like(ctx context.Context, postId string) error {
	return vm.mutate(ctx, postId, likeGroup, func(post *models.PostView) (func(*models.PostView), error) {
		if post.LikedByUser {
			return nil, nil
		}
		liked, count := post.LikedByUser, post.LikeCount
		post.LikedByUser = true
		post.LikeCount++
		return restoreLike(liked, count), nil
	}, func(ctx context.Context) error {
		return vm.repo.LikePost(ctx, postId)
	})
}

func (vm *FeedViewModel) Unlike(ctx context.Context, postId string) error {
	return vm.mutate(ctx, postId, likeGroup, func(post *models.PostView) (func(*models.PostView), error) {
		if !post.LikedByUser {
			return nil, nil
		}
		liked, count := post.LikedByUser, post.LikeCount
		post.LikedByUser = false
		if post.LikeCount > 0 {
			post.LikeCount--
		}
		return restoreLike(liked, count), nil
	}, func(ctx context.Context) error {
		return vm.repo.UnlikePost(ctx, postId)
	})
}

func (vm *FeedViewModel) Save(ctx context.Context, postId string) error {
	userId := vm.userId()
	return vm.mutate(ctx, postId, saveGroup, func(post *models.PostView) (func(*models.PostView), error) {
		if funk.ContainsString(post.SavedBy, userId) {
			return nil, nil
		}
		savedBy := append([]string{}, post.SavedBy...)
		post.SavedBy = append(post.SavedBy, userId)
		return restoreSavedBy(savedBy), nil
	}, func(ctx context.Context) error {
		return vm.repo.SavePost(ctx, postId)
	})
}

func (vm *FeedViewModel) Unsave(ctx context.Context, postId string) error {
	userId := vm.userId()
	return vm.mutate(ctx, postId, saveGroup, func(post *models.PostView) (func(*models.PostView), error) {
		if !funk.ContainsString(post.SavedBy, userId) {
			return nil, nil
		}
		savedBy := append([]string{}, post.SavedBy...)
		post.SavedBy = funk.Filter(post.SavedBy, func(id string) bool {
			return id != userId
		}).([]string)
		return restoreSavedBy(savedBy), nil
	}, func(ctx context.Context) error {
		return vm.repo.UnsavePost(ctx, postId)
	})
}

// AddComment shows the comment at once and removes it again if storing fails.
func (vm *FeedViewModel) AddComment(ctx context.Context, postId, content string) (*models.CommentView, error) {
	comment, err := vm.newComment(content)
	if err != nil {
		return nil, err
	}

	err = vm.mutate(ctx, postId, commentGroup, func(post *models.PostView) (func(*models.PostView), error) {
		post.Comments = append(post.Comments, *comment)
		return func(post *models.PostView) {
			post.Comments = withoutComment(post.Comments, comment.CommentId)
		}, nil
	}, func(ctx context.Context) error {
		_, err := vm.repo.AddComment(ctx, postId, &models.CommentRequest{
			CommentId: comment.CommentId,
			Content:   comment.Content,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (vm *FeedViewModel) AddReply(ctx context.Context, postId, parentCommentId, content string) (*models.CommentView, error) {
	reply, err := vm.newComment(content)
	if err != nil {
		return nil, err
	}

	err = vm.mutate(ctx, postId, commentGroup, func(post *models.PostView) (func(*models.PostView), error) {
		parent := findComment(post.Comments, parentCommentId)
		if parent == nil {
			return nil, status.Error(codes.NotFound, "Comment not found.")
		}
		parent.Replies = append(parent.Replies, *reply)
		return func(post *models.PostView) {
			if parent := findComment(post.Comments, parentCommentId); parent != nil {
				parent.Replies = withoutComment(parent.Replies, reply.CommentId)
			}
		}, nil
	}, func(ctx context.Context) error {
		_, err := vm.repo.AddReply(ctx, postId, parentCommentId, &models.CommentRequest{
			CommentId: reply.CommentId,
			Content:   reply.Content,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// CreatePost is not optimistic: the post is prepended once it is stored.
func (vm *FeedViewModel) CreatePost(ctx context.Context, imageUrl string) (*models.PostView, error) {
	vm.mu.Lock()
	ctx = vm.callContext(ctx)
	vm.mu.Unlock()

	post, err := vm.repo.CreatePost(ctx, &models.CreatePostRequest{ImageUrl: imageUrl})
	if err != nil {
		vm.notifier.Notify(notificationFor(err, ""))
		return nil, err
	}

	vm.mu.Lock()
	if vm.indexOf(post.PostId) < 0 {
		vm.posts = append([]*models.PostView{post}, vm.posts...)
	}
	created := post.Clone()
	vm.mu.Unlock()

	vm.emit()
	return created, nil
}

// IsPending reports whether a like, save or comment intent on postId is
// still waiting for the repository.
func (vm *FeedViewModel) IsPending(postId string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for key := range vm.pending {
		if key.postId == postId {
			return true
		}
	}
	return false
}

// mutate runs one intent: optimistic patch, repository call, and on failure a
// rollback unless the post was reloaded in the meantime.
func (vm *FeedViewModel) mutate(ctx context.Context, postId string, group mutationGroup, apply patch, call func(context.Context) error) error {
	key := mutationKey{postId: postId, group: group}

	vm.mu.Lock()
	if vm.session == nil || len(vm.session.UserId) == 0 {
		vm.mu.Unlock()
		err := status.Error(codes.Unauthenticated, "sign in required")
		vm.notifier.Notify(notificationFor(err, postId))
		return err
	}
	if vm.pending[key] {
		vm.mu.Unlock()
		return status.Errorf(codes.Aborted, "%s on post %s is still pending", group, postId)
	}

	post := vm.find(postId)
	if post == nil {
		vm.mu.Unlock()
		return status.Error(codes.NotFound, "Post not found.")
	}

	undo, err := apply(post)
	if err != nil {
		vm.mu.Unlock()
		return err
	}
	if undo == nil {
		vm.mu.Unlock()
		return nil
	}

	vm.revision++
	revision := vm.revision
	vm.revisions[key] = revision
	vm.pending[key] = true
	ctx = vm.callContext(ctx)
	vm.mu.Unlock()
	vm.emit()

	err = call(ctx)

	vm.mu.Lock()
	if err != nil {
		if vm.revisions[key] == revision {
			if post := vm.find(postId); post != nil {
				undo(post)
			}
		} else {
			logger.Info("Discarding stale rollback",
				zap.String("postId", postId),
				zap.String("group", group.String()))
		}
	}
	// only one intent per key is ever in flight, so the key is done with.
	delete(vm.pending, key)
	delete(vm.revisions, key)
	vm.mu.Unlock()

	if err != nil {
		logger.Error("Feed mutation failed",
			zap.String("postId", postId),
			zap.String("group", group.String()),
			zap.Error(err))
		vm.notifier.Notify(notificationFor(err, postId))
	}
	vm.emit()
	return err
}

func (vm *FeedViewModel) newComment(content string) (*models.CommentView, error) {
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return nil, status.Error(codes.InvalidArgument, "Comment text is empty.")
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	comment := &models.CommentView{
		CommentId: uuid.NewString(),
		Content:   content,
		CreatedOn: time.Now().UnixMilli(),
		Replies:   []models.CommentView{},
	}
	if vm.session != nil {
		comment.UserId = vm.session.UserId
		comment.UserName = vm.session.Name()
	}
	return comment, nil
}

func (vm *FeedViewModel) userId() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.session == nil {
		return ""
	}
	return vm.session.UserId
}

func restoreLike(liked bool, count int64) func(*models.PostView) {
	return func(post *models.PostView) {
		post.LikedByUser = liked
		post.LikeCount = count
	}
}

func restoreSavedBy(savedBy []string) func(*models.PostView) {
	return func(post *models.PostView) {
		post.SavedBy = savedBy
	}
}

func findComment(comments []models.CommentView, commentId string) *models.CommentView {
	for i := range comments {
		if comments[i].CommentId == commentId {
			return &comments[i]
		}
	}
	return nil
}

func withoutComment(comments []models.CommentView, commentId string) []models.CommentView {
	return funk.Filter(comments, func(c models.CommentView) bool {
		return c.CommentId != commentId
	}).([]models.CommentView)
}
