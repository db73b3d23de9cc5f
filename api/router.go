package api

import (
	"context"
	"net/http"

	"github.com/Kotlang/photoFeedGo/feed"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type SessionService interface {
	SignUp(ctx context.Context, req *identity.SignUpRequest) (*identity.Session, error)
	SignIn(ctx context.Context, req *identity.SignInRequest) (*identity.Session, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, req *identity.UpdateProfileRequest) (*identity.Session, error)
	Resolve(ctx context.Context) (*identity.Session, error)
}

type PostService interface {
	feed.PostRepository
	GetPost(ctx context.Context, postId string) (*models.PostView, error)
	DeletePost(ctx context.Context, postId string) error
	GetMediaUploadUrl(ctx context.Context, req *models.MediaUploadRequest) (*models.MediaUploadUrl, error)
}

type StatsService interface {
	GetStats(ctx context.Context, userId string) (*models.SocialStatsModel, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userId string) (*models.UserProfileModel, error)
}

// Server is the JSON surface over the post service and the per-user feeds.
type Server struct {
	sessions SessionService
	posts    PostService
	stats    StatsService
	profiles ProfileService
	feeds    *feed.Registry
}

func NewServer(sessions SessionService, posts PostService, stats StatsService, profiles ProfileService, feeds *feed.Registry) *Server {
	return &Server{
		sessions: sessions,
		posts:    posts,
		stats:    stats,
		profiles: profiles,
		feeds:    feeds,
	}
}

func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post("/auth/signup", s.handleSignUp)
	r.Post("/auth/signin", s.handleSignIn)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/posts", s.handleListPosts)
		r.Get("/posts/{postId}", s.handleGetPost)
		r.Get("/stats/{userId}", s.handleGetStats)
		r.Get("/profiles/{userId}", s.handleGetProfile)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/auth/signout", s.handleSignOut)
			r.Put("/auth/profile", s.handleUpdateProfile)
			r.Get("/stats", s.handleGetStats)

			r.Post("/posts", s.handleCreatePost)
			r.Delete("/posts/{postId}", s.handleDeletePost)
			r.Post("/posts/{postId}/like", s.handleLike)
			r.Delete("/posts/{postId}/like", s.handleUnlike)
			r.Post("/posts/{postId}/save", s.handleSave)
			r.Delete("/posts/{postId}/save", s.handleUnsave)
			r.Post("/posts/{postId}/comments", s.handleAddComment)
			r.Post("/posts/{postId}/comments/{commentId}/replies", s.handleAddReply)
			r.Post("/media/upload-url", s.handleMediaUploadUrl)

			r.Route("/feed", func(r chi.Router) {
				r.Get("/", s.handleFeedState)
				r.Post("/more", s.handleFeedMore)
				r.Post("/refresh", s.handleFeedRefresh)
				r.Put("/filter", s.handleFeedFilter)
				r.Post("/posts", s.handleFeedCreatePost)
				r.Post("/posts/{postId}/comments", s.handleFeedComment)
				r.Post("/posts/{postId}/comments/{commentId}/replies", s.handleFeedReply)
				r.Post("/posts/{postId}/{action}", s.handleFeedAction)
			})
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}
