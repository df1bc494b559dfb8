package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/foodkart-next/internal/authz"
	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	handlershared "github.com/foodkart-next/internal/http/handlers/shared"
	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/i18n"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey           = "request_id"
	requestIDHeader        = "X-Request-ID"
	adminIDContextKey      = "admin_id"
	adminNameContextKey    = "username"
	adminIsSuperContextKey = "admin_is_super"
	userIDContextKey       = "user_id"
	userEmailContextKey    = "user_email"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Authorization",
			"Accept-Language",
			requestIDHeader,
			constants.HeaderGuestToken,
		}
	}
	exposedHeaders := cfg.ExposedHeaders
	if len(exposedHeaders) == 0 {
		exposedHeaders = []string{requestIDHeader, constants.HeaderGuestToken}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")
	exposeHeader := strings.Join(exposedHeaders, ", ")

	return func(c *gin.Context) {
		header := c.Writer.Header()
		if origin := resolveAllowedOrigin(c.GetHeader("Origin"), allowedOrigins, cfg.AllowCredentials); origin != "" {
			header.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", headersHeader)
		header.Set("Access-Control-Allow-Methods", methodsHeader)
		header.Set("Access-Control-Expose-Headers", exposeHeader)
		if cfg.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed != "*" {
			continue
		}
		if allowCredentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if identity := handlershared.GetIdentity(c); identity.Resolved() {
			fields = append(fields, "identity_key", identity.Key())
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("http_request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("http_request", fields...)
	}
}

func getRequestID(c *gin.Context) string {
	if value, ok := c.Get(requestIDKey); ok {
		if requestID, ok := value.(string); ok {
			return requestID
		}
	}
	return ""
}

func abortWithKey(c *gin.Context, code int, key string) {
	response.Error(c, code, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// bearerToken 解析 Authorization 头；未携带时返回空串与 true
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", true
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// IdentityMiddleware 解析请求身份：有效 Bearer 为登录用户，否则按游客凭证识别
// 游客凭证缺失时生成新凭证并通过响应头回传
// tolerateStaleBearer 为 true 时失效的 Bearer 回退为游客身份（用于登录/注册）
func IdentityMiddleware(resolver *service.IdentityResolver, tolerateStaleBearer bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			abortWithKey(c, response.CodeInternal, "error.identity_pending")
			return
		}
		bearer, ok := bearerToken(c)
		if !ok {
			abortWithKey(c, response.CodeUnauthorized, "error.auth_header_invalid")
			return
		}
		guestToken := strings.TrimSpace(c.GetHeader(constants.HeaderGuestToken))
		if guestToken == "" {
			guestToken = service.NewGuestToken()
		}

		identity, err := resolver.ResolveToken(c.Request.Context(), bearer, guestToken)
		if err != nil && bearer != "" && tolerateStaleBearer && !errors.Is(err, service.ErrIdentityPending) && !errors.Is(err, service.ErrGuestTokenInvalid) {
			identity, err = resolver.ResolveToken(c.Request.Context(), "", guestToken)
		}
		if err != nil {
			respondIdentityError(c, err)
			return
		}

		c.Set(handlershared.ContextKeyIdentity, identity)
		if identity.IsAuthenticated() {
			c.Set(userIDContextKey, identity.UserID)
			c.Set(userEmailContextKey, identity.Email)
		}
		c.Writer.Header().Set(constants.HeaderGuestToken, identity.GuestToken)
		c.Next()
	}
}

func respondIdentityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIdentityPending):
		logger.Warnw("identity_resolve_pending", "request_id", getRequestID(c), "error", err)
		abortWithKey(c, response.CodeInternal, "error.identity_pending")
	case errors.Is(err, service.ErrGuestTokenInvalid):
		abortWithKey(c, response.CodeBadRequest, "error.guest_token_invalid")
	case errors.Is(err, service.ErrUserDisabled):
		abortWithKey(c, response.CodeUnauthorized, "error.user_disabled")
	case errors.Is(err, service.ErrTokenRevoked):
		abortWithKey(c, response.CodeUnauthorized, "error.token_revoked")
	default:
		abortWithKey(c, response.CodeUnauthorized, "error.token_invalid")
	}
}

// RequireUserMiddleware 仅允许登录用户访问
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := handlershared.GetIdentity(c)
		if !identity.Resolved() {
			abortWithKey(c, response.CodeInternal, "error.identity_pending")
			return
		}
		if !identity.IsAuthenticated() {
			abortWithKey(c, response.CodeUnauthorized, "error.auth_header_missing")
			return
		}
		c.Next()
	}
}

// AdminJWTMiddleware 管理员 JWT 鉴权中间件
func AdminJWTMiddleware(authService *service.AuthService, secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(secretKey) == "" {
			abortWithKey(c, response.CodeUnauthorized, "error.jwt_secret_missing")
			return
		}
		if authService == nil {
			abortWithKey(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			abortWithKey(c, response.CodeUnauthorized, "error.auth_header_invalid")
			return
		}
		if token == "" {
			abortWithKey(c, response.CodeUnauthorized, "error.auth_header_missing")
			return
		}

		principal, err := authService.AuthenticateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrTokenRevoked) {
				abortWithKey(c, response.CodeUnauthorized, "error.token_revoked")
				return
			}
			if errors.Is(err, service.ErrAuthStateUnavailable) {
				logger.Errorw("admin_auth_state_unavailable", "request_id", getRequestID(c), "error", err)
			}
			abortWithKey(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}

		c.Set(adminIDContextKey, principal.AdminID)
		c.Set(adminNameContextKey, principal.Username)
		c.Set(adminIsSuperContextKey, principal.IsSuper)
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件（超级管理员直接放行）
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortWithKey(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}

		adminID := c.GetUint(adminIDContextKey)
		if adminID == 0 {
			abortWithKey(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithKey(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortWithKey(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}
