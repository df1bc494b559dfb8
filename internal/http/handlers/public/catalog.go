package public

import (
	"errors"
	"strconv"

	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListRestaurants 餐厅列表（仅上架）
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.CatalogService.ListRestaurants(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	response.Success(c, restaurants)
}

// GetRestaurant 餐厅详情（含在售菜单）
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	restaurant, err := h.CatalogService.GetRestaurant(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			respondError(c, response.CodeNotFound, "error.restaurant_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	response.Success(c, restaurant)
}
