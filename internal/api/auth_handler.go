package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/middleware"
	"cinedex-backend-go/internal/models"
)

// AuthHandler handles registration, sign-in and sign-out.
type AuthHandler struct {
	accounts core.AccountService
	logger   *zap.Logger
}

func NewAuthHandler(accounts core.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	account, err := h.accounts.SignUp(c.Request.Context(), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Account created. Check your email to verify your address before signing in.",
		Data:    account,
	})
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	account, err := h.accounts.SignIn(c.Request.Context(), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// SignInFederated handles POST /api/v1/auth/signin/federated
func (h *AuthHandler) SignInFederated(c *gin.Context) {
	var req models.FederatedSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	account, err := h.accounts.SignInFederated(c.Request.Context(), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if err := h.accounts.SignOut(c.Request.Context(), userID, c.GetString(middleware.ContextUserEmail)); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}
