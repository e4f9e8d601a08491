package rest

import (
	"net/http"

	"github.com/dmitrijs2005/issuetracker/internal/server/services"
)

const welcomeMessage = "Hello, Welcome to Issue Ticket System!"

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func newSessionView(sess *services.Session) sessionView {
	return sessionView{
		Token: sess.Token.ID,
		User: userView{
			UID:       sess.Credential.ID,
			CreatedAt: sess.Credential.CreatedAt,
		},
	}
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	sess, err := s.svc.Credentials.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	sess, err := s.svc.Credentials.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	res, _ := AuthResultFromContext(r.Context())

	tok, err := s.svc.Tokens.Revoke(r.Context(), res.Token.ID)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, signOutView{UID: tok.ID, RevokedAt: tok.RevokedAt})
}

type permissionsRequest struct {
	Permissions []any `json:"permissions"`
}

func (s *Server) setPermissions(w http.ResponseWriter, r *http.Request) {
	res, _ := AuthResultFromContext(r.Context())

	var req permissionsRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	cred, err := s.svc.Credentials.SetPermissions(r.Context(), res.Credential.ID, req.Permissions)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newCredentialView(cred))
}
