package public

import (
	"github.com/foodkart-next/internal/http/response"
	handlershared "github.com/foodkart-next/internal/http/handlers/shared"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// requireIdentity 读取已解析身份；未解析时直接响应
func requireIdentity(c *gin.Context) (service.Identity, bool) {
	identity := handlershared.GetIdentity(c)
	if !identity.Resolved() {
		respondError(c, response.CodeInternal, "error.identity_pending", nil)
		return identity, false
	}
	return identity, true
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}
