package public

import (
	"strconv"
	"strings"

	"github.com/foodkart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	RestaurantID uint `json:"restaurant_id" binding:"required"`
	ItemID       uint `json:"item_id" binding:"required"`
}

// CartQuantityRequest 数量调整请求（delta 为增量，可为负）
type CartQuantityRequest struct {
	Delta int `json:"delta" binding:"gte=-1000,lte=1000"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(c.Request.Context(), identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车（数量 +1，价格以目录为准）
func (h *Handler) AddCartItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddItem(c.Request.Context(), identity, req.RestaurantID, req.ItemID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除菜品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), identity, itemID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 调整菜品数量，结果最少为 1
func (h *Handler) UpdateCartItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), identity, itemID, req.Delta)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(c.Request.Context(), identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// QuoteCart 购物车报价（可带优惠码）
func (h *Handler) QuoteCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	preview, err := h.CheckoutService.Preview(c.Request.Context(), identity, strings.TrimSpace(c.Query("promo_code")))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, preview)
}

func parseItemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
