package api

import (
	"net/http"

	"github.com/Kotlang/photoFeedGo/feed"
	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/models"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type filterRequest struct {
	Filter string `json:"filter"`
}

type contentRequest struct {
	Content string `json:"content"`
}

// viewModel is only reached behind requireSession.
func (s *Server) viewModel(r *http.Request) *feed.FeedViewModel {
	session, _ := identity.SessionFromContext(r.Context())
	return s.feeds.ForSession(session)
}

func (s *Server) handleFeedState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewModel(r).State())
}

func (s *Server) handleFeedMore(w http.ResponseWriter, r *http.Request) {
	vm := s.viewModel(r)
	if err := vm.LoadMore(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm.State())
}

func (s *Server) handleFeedRefresh(w http.ResponseWriter, r *http.Request) {
	vm := s.viewModel(r)
	if err := vm.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm.State())
}

func (s *Server) handleFeedFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !readJSON(w, r, &req) {
		return
	}

	filter, err := feed.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, err)
		return
	}

	vm := s.viewModel(r)
	vm.SetFilter(filter)
	writeJSON(w, http.StatusOK, vm.State())
}

func (s *Server) handleFeedCreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !readJSON(w, r, &req) {
		return
	}

	post, err := s.viewModel(r).CreatePost(r.Context(), req.ImageUrl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleFeedAction(w http.ResponseWriter, r *http.Request) {
	vm := s.viewModel(r)
	postId := chi.URLParam(r, "postId")

	var err error
	switch chi.URLParam(r, "action") {
	case "like":
		err = vm.Like(r.Context(), postId)
	case "unlike":
		err = vm.Unlike(r.Context(), postId)
	case "save":
		err = vm.Save(r.Context(), postId)
	case "unsave":
		err = vm.Unsave(r.Context(), postId)
	default:
		err = status.Error(codes.NotFound, "Unknown action.")
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm.State())
}

func (s *Server) handleFeedComment(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !readJSON(w, r, &req) {
		return
	}

	comment, err := s.viewModel(r).AddComment(r.Context(), chi.URLParam(r, "postId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleFeedReply(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !readJSON(w, r, &req) {
		return
	}

	reply, err := s.viewModel(r).AddReply(r.Context(), chi.URLParam(r, "postId"), chi.URLParam(r, "commentId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}
