package httpapi

import (
	"encoding/json"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/middleware"
)

const maxLoginBody = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Health(r.Context())
	store := "disconnected"
	if status.StoreAvailable {
		store = "connected"
	}
	writeJSON(w, http.StatusOK, healthBody{
		Success: true,
		Message: "Server is running",
		MongoDB: store,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := s.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch goSession.ErrorKind(err) {
		case goSession.KindValidation:
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case goSession.KindInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.logger.WithError(err).Error("login failed")
			writeError(w, http.StatusInternalServerError, "Server error during login")
		}
		return
	}

	s.setSessionCookie(w, res.Token)
	writeJSON(w, http.StatusOK, loginBody{
		Success: true,
		User:    res.User,
		Token:   res.Token,
		Message: "Login successful",
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	claim, _ := middleware.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, verifyBody{
		Success:       true,
		Authenticated: true,
		UserID:        claim.UserID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.TokenFromContext(r.Context())
	if err := s.engine.Logout(r.Context(), token); err != nil {
		status, msg := middleware.StatusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.WithError(err).Error("logout failed")
			msg = "Server error"
		}
		writeError(w, status, msg)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageBody{Success: true, Message: "Logged out successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claim, _ := middleware.IdentityFromContext(r.Context())
	user, err := s.engine.Profile(r.Context(), claim.UserID)
	if err != nil {
		if goSession.ErrorKind(err) == goSession.KindNotFound {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.WithError(err).Error("profile failed")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, profileBody{Success: true, User: user})
}

// rejectUnauthenticated is the guard's error writer.
func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := middleware.StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("session validation failed")
	}
	writeError(w, status, msg)
}
