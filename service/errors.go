package service

import (
	"context"
	"errors"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// storeError turns a document store failure into a status error.
func storeError(err error, notFoundMsg string) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return status.Error(codes.NotFound, notFoundMsg)
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return status.Error(codes.DeadlineExceeded, "document store timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	default:
		logger.Error("Document store call failed", zap.Error(err))
		return status.Error(codes.Unavailable, "document store unavailable")
	}
}

func requireSession(ctx context.Context) (*identity.Session, error) {
	session, ok := identity.SessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "sign in required")
	}
	return session, nil
}

// await blocks until the repository answers or ctx is done.
func await[T any](ctx context.Context, resChan chan T, errChan chan error) (T, error) {
	var zero T
	select {
	case res := <-resChan:
		return res, nil
	case err := <-errChan:
		return zero, err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func awaitErr(ctx context.Context, errChan chan error) error {
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
