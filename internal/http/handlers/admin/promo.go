package admin

import (
	"strings"

	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromoRequest 优惠码写入请求（更新时忽略 code）
type PromoRequest struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	MaxDiscount models.Money    `json:"max_discount"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"is_active"`
}

func (r PromoRequest) toInput() service.PromoInput {
	return service.PromoInput{
		Code:        r.Code,
		Kind:        r.Kind,
		Value:       r.Value,
		MaxDiscount: r.MaxDiscount,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

var promoErrorRules = []mappedHandlerError{
	{target: service.ErrPromoNotFound, code: response.CodeNotFound, key: "error.promo_not_found"},
	{target: service.ErrPromoInvalid, code: response.CodeBadRequest, key: "error.promo_invalid"},
	{target: service.ErrPromoCodeExists, code: response.CodeConflict, key: "error.promo_code_exists"},
}

// ListPromos 优惠码列表
func (h *Handler) ListPromos(c *gin.Context) {
	page, pageSize := pageParams(c)
	promos, total, err := h.PromoService.ListPromos(c.Request.Context(), repository.PromoListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, promos, response.BuildPagination(page, pageSize, total))
}

// GetPromo 优惠码详情
func (h *Handler) GetPromo(c *gin.Context) {
	promo, err := h.PromoService.GetPromo(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithMappedError(c, err, promoErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, promo)
}

// CreatePromo 创建优惠码
func (h *Handler) CreatePromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	promo, err := h.PromoService.CreatePromo(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, promoErrorRules, response.CodeInternal, "error.promo_update_failed")
		return
	}
	logger.Infow("admin_promo_created", "operator_admin_id", currentAdminID(c), "code", promo.Code)
	response.Success(c, promo)
}

// UpdatePromo 更新优惠码
func (h *Handler) UpdatePromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	promo, err := h.PromoService.UpdatePromo(c.Request.Context(), c.Param("code"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, promoErrorRules, response.CodeInternal, "error.promo_update_failed")
		return
	}
	response.Success(c, promo)
}

// DeletePromo 删除优惠码
func (h *Handler) DeletePromo(c *gin.Context) {
	code := c.Param("code")
	if err := h.PromoService.DeletePromo(c.Request.Context(), code); err != nil {
		respondWithMappedError(c, err, promoErrorRules, response.CodeInternal, "error.promo_update_failed")
		return
	}
	logger.Infow("admin_promo_deleted", "operator_admin_id", currentAdminID(c), "code", service.NormalizePromoCode(code))
	response.Success(c, nil)
}
