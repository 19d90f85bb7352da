package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avolkovs/accountd/internal/common"
)

// apiResponse is the fixed response shape: reason only on failure, auth_key
// only on successful signup/login. The status is always 200; outcome travels
// in the body.
type apiResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	AuthKey string `json:"auth_key,omitempty"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, apiResponse{Success: false, Reason: "invalid request body"})
		return
	}

	authKey, err := s.accounts.Signup(r.Context(), req.Name, req.Email, req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, apiResponse{Success: true, AuthKey: authKey})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	authKey, err := s.accounts.Login(r.Context(), q.Get("username"), q.Get("password"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, apiResponse{Success: true, AuthKey: authKey})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if err := s.verification.Send(r.Context(), r.URL.Query().Get("auth_key")); err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, apiResponse{Success: true})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := s.verification.Confirm(r.Context(), q.Get("auth_key"), q.Get("verification_code")); err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, apiResponse{Success: true})
}

// fail serializes err into the response body. Infrastructure failures are
// logged loudly; validation and auth failures are normal traffic.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.Internal(err) {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug(r.Context(), "request rejected", "path", r.URL.Path, "reason", err.Error())
	}

	s.writeJSON(w, apiResponse{Success: false, Reason: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error(context.Background(), "response encoding failed", "error", err)
	}
}
