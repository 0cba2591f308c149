package auth

import (
	"errors"
	"net/http"
	"time"

	"cafelist/repository"
	"cafelist/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves the admin login and logout pages.
type Handler struct {
	admins       *repository.AdminRepo
	tokens       *utils.Tokens
	adminRoot    string
	sessionTTL   time.Duration
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(admins *repository.AdminRepo, tokens *utils.Tokens, adminRoot string, sessionTTL time.Duration, secureCookie bool, logger *zap.Logger) *Handler {
	return &Handler{
		admins:       admins,
		tokens:       tokens,
		adminRoot:    adminRoot,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *Handler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", "")
}

// Login checks the credentials and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	type Request struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}

	var req Request
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, req.Username, "Username and password are required")
		return
	}

	admin, err := h.admins.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			h.renderLogin(c, http.StatusUnauthorized, req.Username, "Invalid login credentials")
			return
		}
		h.logger.Error("find admin", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Login is unavailable")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		h.logger.Warn("admin login rejected", zap.String("username", req.Username))
		h.renderLogin(c, http.StatusUnauthorized, req.Username, "Invalid login credentials")
		return
	}

	token, err := h.tokens.GenerateSession(string(admin.Role), admin.ID)
	if err != nil {
		h.logger.Error("generate session", zap.Error(err))
		utils.RenderError(c, http.StatusInternalServerError, "Failed to generate session")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(utils.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)
	h.logger.Info("admin logged in", zap.Uint("admin_id", admin.ID))
	c.Redirect(http.StatusFound, h.adminRoot)
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(utils.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) renderLogin(c *gin.Context, status int, username, msg string) {
	c.HTML(status, "login.html", gin.H{
		"Title":     "Admin login",
		"AdminRoot": h.adminRoot,
		"Username":  username,
		"Error":     msg,
	})
}
