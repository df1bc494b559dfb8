package admin

import (
	"strings"

	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/repository"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		Status:      strings.TrimSpace(c.Query("status")),
		IdentityKey: strings.TrimSpace(c.Query("identity_key")),
	}
	orders, total, err := h.OrderService.AdminList(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.AdminGet(c.Request.Context(), strings.TrimSpace(c.Param("order_no")))
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}
