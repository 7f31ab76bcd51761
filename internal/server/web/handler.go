// Package web is the HTTP facade of the board server. It owns the bearer
// token session registry and translates between JSON requests and the
// service layer; all business rules live below it.
package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"anonboard/internal/common"
	"anonboard/internal/logging"
	"anonboard/internal/server/services"
	"anonboard/internal/session"
	"anonboard/internal/settings"
	"anonboard/internal/users"
)

const sessionKey = "session"

// Handler bundles the service layer with the session registry.
type Handler struct {
	board    *services.Board
	sessions *Registry
	logger   logging.Logger
}

func NewHandler(board *services.Board, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		board:    board,
		sessions: NewRegistry(),
		logger:   logger,
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorBanned):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorAuthRejected),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorUserExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorMissingFields),
		errors.Is(err, common.ErrorEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func bearerToken(c *gin.Context) string {
	v := c.GetHeader(common.SessionTokenHeaderName)
	return strings.TrimPrefix(v, "Bearer ")
}

// sessionRequired resolves the bearer token into session state. Unknown or
// missing tokens abort with 401.
func (h *Handler) sessionRequired(c *gin.Context) {
	st, ok := h.sessions.Lookup(bearerToken(c))
	if !ok {
		fail(c, common.ErrorInvalidSession)
		return
	}
	c.Set(sessionKey, st)
	c.Next()
}

func currentSession(c *gin.Context) *session.State {
	return c.MustGet(sessionKey).(*session.State)
}

// loginSession reuses the caller's existing session when the bearer token is
// valid, so re-login and post-logout restore keep their per-connection
// state, and opens a fresh one otherwise.
func (h *Handler) loginSession(c *gin.Context) (string, *session.State, error) {
	token := bearerToken(c)
	if st, ok := h.sessions.Lookup(token); ok {
		return token, st, nil
	}
	return h.sessions.Create()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	token, st, err := h.loginSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	creds := services.Credentials{Email: req.Email, Password: req.Password}
	if err := h.board.Authenticate(c.Request.Context(), st, creds); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": st.User(), "is_admin": false})
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	token, st, err := h.loginSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	err = h.board.Signup(c.Request.Context(), st, services.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": st.User()})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	token, st, err := h.loginSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.board.AdminLogin(c.Request.Context(), st, req.Username, req.Password); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": st.User(), "is_admin": true})
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
	Restore bool   `json:"restore"`
}

// googleLogin signs a user in from a provider ID token. With restore set the
// call is treated as an automatic session restore, which an explicit logout
// suppresses exactly once.
func (h *Handler) googleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		fail(c, common.ErrorMissingFields)
		return
	}

	token, st, err := h.loginSession(c)
	if err != nil {
		fail(c, err)
		return
	}

	if req.Restore {
		err = h.board.RestoreExternal(c.Request.Context(), st, req.IDToken)
	} else {
		err = h.board.ExternalLogin(c.Request.Context(), st, req.IDToken)
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": st.User(), "is_admin": false})
}

func (h *Handler) logout(c *gin.Context) {
	h.board.Logout(currentSession(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) feed(c *gin.Context) {
	feed, err := h.board.Feed(c.Request.Context(), currentSession(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":         feed.Messages,
		"total":            feed.Total,
		"refresh_interval": feed.RefreshInterval,
		"empty":            feed.Empty,
	})
}

type postRequest struct {
	Content string `json:"content"`
}

func (h *Handler) post(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	if err := h.board.Post(c.Request.Context(), currentSession(c), req.Content); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) adminUsers(c *gin.Context) {
	all, err := h.board.Users(c.Request.Context(), currentSession(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": all})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setUserStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	err := h.board.SetUserStatus(c.Request.Context(), currentSession(c), c.Param("name"), users.Status(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.board.DeleteUser(c.Request.Context(), currentSession(c), c.Param("name")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearMessages(c *gin.Context) {
	if err := h.board.ClearMessages(c.Request.Context(), currentSession(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getSettings(c *gin.Context) {
	interval, err := h.board.RefreshInterval(c.Request.Context(), currentSession(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings.Settings{RefreshInterval: interval})
}

func (h *Handler) putSettings(c *gin.Context) {
	var req settings.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, common.ErrorMissingFields)
		return
	}

	if err := h.board.SetRefreshInterval(c.Request.Context(), currentSession(c), req.RefreshInterval); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.board.Stats(c.Request.Context(), currentSession(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":            stats.Users,
		"messages":         stats.Messages,
		"refresh_interval": stats.RefreshInterval,
	})
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
