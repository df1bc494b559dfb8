package public

import (
	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutPreviewRequest 结算预览请求
type CheckoutPreviewRequest struct {
	PromoCode string `json:"promo_code"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	PromoCode     string `json:"promo_code"`
	ConfirmAmount string `json:"confirm_amount" binding:"required"`
}

// PreviewCheckout 结算预览
func (h *Handler) PreviewCheckout(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req CheckoutPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	preview, err := h.CheckoutService.Preview(c.Request.Context(), identity, req.PromoCode)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, preview)
}

// PlaceOrder 确认金额并下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CheckoutService.PlaceOrder(c.Request.Context(), identity, service.PlaceOrderInput{
		PromoCode:     req.PromoCode,
		ConfirmAmount: req.ConfirmAmount,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":        result.Order,
		"cart_cleared": result.CartCleared,
	})
}
