package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskeve/internal/models"
	"taskeve/internal/storage/sqlite"
)

const (
	sessionCookie  = "taskeve_session"
	ctxUserKey     = "currentUser"
	minPasswordLen = 4
)

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a new account.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("username is required"))
		return
	}
	if len(req.Password) < minPasswordLen {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("password must be at least %d characters", minPasswordLen))
		return
	}
	if req.Password != req.ConfirmPassword {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("passwords do not match"))
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, sqlite.ErrUsernameTaken) {
		s.respondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleLogin verifies credentials and issues the session cookie.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.VerifyUser(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, sqlite.ErrInvalidCredentials) {
		s.respondError(c, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	token, err := s.sessions.Token(user.ID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.sessions.TTL().Seconds()), "/", "", false, true)
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

// handleLogout drops the session cookie.
func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	respondSuccess(c, http.StatusOK, gin.H{"status": "logged out"})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"user": currentUser(c)})
}

// RequireUser rejects requests without a valid session and loads the
// session's user fresh from the store, so a deleted or stale account
// cannot keep acting through an old token.
func (s *Server) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := s.sessions.UserID(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		user, err := s.store.GetUserByID(c.Request.Context(), userID)
		if errors.Is(err, sqlite.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// currentUser returns the user placed in the context by RequireUser.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(ctxUserKey).(models.User)
}
