package shared

import (
	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextKeyIdentity 身份中间件写入上下文的键
const ContextKeyIdentity = "identity"

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetIdentity 读取身份中间件解析出的身份；缺失时返回 Pending
func GetIdentity(c *gin.Context) service.Identity {
	if value, ok := c.Get(ContextKeyIdentity); ok {
		if identity, ok := value.(service.Identity); ok {
			return identity
		}
	}
	return service.PendingIdentity()
}
