package handler

import (
	"errors"
	"net/http"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/middleware"
)

// SignUp handles POST /signup.
// Identity-provider rejections (e.g. email taken) are 400 with the
// provider's message; form problems are 422.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	sess, err := s.accounts.SignUp(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			writeError(w, http.StatusBadRequest, "signup_rejected", unwrapMessage(err, domain.ErrAuth))
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// SignIn handles POST /signin.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	sess, err := s.accounts.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// SignOut handles POST /signout. The user's trip store is released by the
// registry's auth-state subscription.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
