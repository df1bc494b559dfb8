package public

import (
	"time"

	"github.com/foodkart-next/internal/constants"
	handlershared "github.com/foodkart-next/internal/http/handlers/shared"
	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 验证码请求载荷
type CaptchaPayloadRequest = handlershared.CaptchaPayloadRequest

// SignupRequest 注册请求
type SignupRequest struct {
	Name           string                `json:"name" binding:"required"`
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	RememberMe     bool                  `json:"remember_me"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Signup 用户注册；当前游客购物车随身份切换迁移到账号
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.IdentityResolver.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Captcha:  req.CaptchaPayload.ToServicePayload(),
	}, handlershared.GetIdentity(c))
	if err != nil {
		respondAuthError(c, err, "error.internal")
		return
	}
	response.Success(c, authPayload(result))
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.IdentityResolver.Login(c.Request.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		Captcha:    req.CaptchaPayload.ToServicePayload(),
	}, handlershared.GetIdentity(c))
	if err != nil {
		respondAuthError(c, err, "error.internal")
		return
	}
	response.Success(c, authPayload(result))
}

// Logout 登出：失效该用户 token，切回本设备游客身份
func (h *Handler) Logout(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	next, err := h.IdentityResolver.Logout(c.Request.Context(), identity)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(identityErrorRules, authErrorRules), response.CodeInternal, "error.internal")
		return
	}
	c.Header(constants.HeaderGuestToken, next.GuestToken)
	response.Success(c, gin.H{"guest_token": next.GuestToken})
}

// GetMe 当前登录用户
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, userPayload(user))
}

func authPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"user":        userPayload(result.User),
		"token":       result.Token,
		"expires_at":  result.ExpiresAt.Format(time.RFC3339),
		"guest_token": result.Identity.GuestToken,
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"display_name":  user.DisplayName,
		"locale":        user.Locale,
		"last_login_at": user.LastLoginAt,
	}
}
