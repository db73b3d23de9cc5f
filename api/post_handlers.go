package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Kotlang/photoFeedGo/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.FeedRequest{
		Cursor:    query.Get("cursor"),
		CreatedBy: query.Get("createdBy"),
		SavedBy:   query.Get("savedBy"),
	}
	if raw := query.Get("pageSize"); len(raw) > 0 {
		// bad numbers fall through to validation as -1
		pageSize, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			pageSize = -1
		}
		req.PageSize = pageSize
	}

	page, err := s.posts.ListPosts(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !readJSON(w, r, &req) {
		return
	}

	post, err := s.posts.CreatePost(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.DeletePost(r.Context(), chi.URLParam(r, "postId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.postAction(w, r, s.posts.LikePost)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	s.postAction(w, r, s.posts.UnlikePost)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.postAction(w, r, s.posts.SavePost)
}

func (s *Server) handleUnsave(w http.ResponseWriter, r *http.Request) {
	s.postAction(w, r, s.posts.UnsavePost)
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string) error) {
	if err := action(r.Context(), chi.URLParam(r, "postId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !readJSON(w, r, &req) {
		return
	}

	comment, err := s.posts.AddComment(r.Context(), chi.URLParam(r, "postId"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleAddReply(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !readJSON(w, r, &req) {
		return
	}

	reply, err := s.posts.AddReply(r.Context(), chi.URLParam(r, "postId"), chi.URLParam(r, "commentId"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

func (s *Server) handleMediaUploadUrl(w http.ResponseWriter, r *http.Request) {
	var req models.MediaUploadRequest
	if !readJSON(w, r, &req) {
		return
	}

	urls, err := s.posts.GetMediaUploadUrl(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, urls)
}
