package api

import (
	"net/http"

	"github.com/Kotlang/photoFeedGo/identity"
	"github.com/Kotlang/photoFeedGo/service"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req identity.SignUpRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := service.ValidateRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.SignUp(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req identity.SignInRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := service.ValidateRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.SignIn(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req identity.UpdateProfileRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := service.ValidateRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.UpdateProfile(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":      profile.UserId,
		"displayName": profile.DisplayName,
		"createdOn":   profile.CreatedOn,
	})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetStats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
