package api

import (
	"net/http"
	"time"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// withSession resolves the bearer token, when one is sent, and puts the
// session on the request context. Requests without a token pass through
// anonymously.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if len(authorization) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := identity.WithIncomingBearer(r.Context(), authorization)
		session, err := s.sessions.Resolve(ctx)
		if err != nil {
			logger.Debug("Failed resolving session", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithSession(ctx, session)))
	})
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.SessionFromContext(r.Context()); !ok {
			writeError(w, status.Error(codes.Unauthenticated, "Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger.Info("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}
