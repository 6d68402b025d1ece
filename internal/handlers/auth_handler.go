package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/auth"
	"github.com/pgs-software-club/club-service/internal/utils"
	"github.com/pgs-software-club/club-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	tokens *auth.TokenService
}

func NewAuthHandler(tokens *auth.TokenService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		tokens:      tokens,
	}
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login checks the admin credentials and starts a cookie session.
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Admin login attempt")

	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.tokens.ValidateAdmin(req.Email, req.Password); err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	maxAge := int(h.tokens.TokenTTL().Seconds())
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// Logout drops the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}
