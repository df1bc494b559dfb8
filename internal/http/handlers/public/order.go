package public

import (
	"net/http"
	"strconv"
	"strings"

	handlershared "github.com/foodkart-next/internal/http/handlers/shared"
	"github.com/foodkart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListByUser(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 按订单号查看订单（仅下单身份可见）
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByOrderNo(c.Request.Context(), identity, strings.TrimSpace(c.Param("order_no")))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderQRCode 订单二维码（PNG）
func (h *Handler) GetOrderQRCode(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	png, err := h.OrderService.QRCode(c.Request.Context(), identity, strings.TrimSpace(c.Param("order_no")))
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(identityErrorRules, orderErrorRules), response.CodeInternal, "error.qrcode_failed")
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
