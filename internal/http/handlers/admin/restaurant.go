package admin

import (
	"strings"

	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RestaurantRequest 餐厅写入请求
type RestaurantRequest struct {
	Name      string  `json:"name" binding:"required"`
	Rating    float64 `json:"rating"`
	Cuisine   string  `json:"cuisine"`
	Image     string  `json:"image"`
	IsActive  *bool   `json:"is_active"`
	SortOrder int     `json:"sort_order"`
}

func (r RestaurantRequest) toInput() service.RestaurantInput {
	return service.RestaurantInput{
		Name:      r.Name,
		Rating:    r.Rating,
		Cuisine:   r.Cuisine,
		Image:     r.Image,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}
}

// MenuItemRequest 菜品写入请求
type MenuItemRequest struct {
	Name        string       `json:"name" binding:"required"`
	Price       models.Money `json:"price"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

func (r MenuItemRequest) toInput() service.MenuItemInput {
	return service.MenuItemInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, key: "error.restaurant_not_found"},
	{target: service.ErrMenuItemNotFound, code: response.CodeNotFound, key: "error.menu_item_not_found"},
	{target: service.ErrCatalogInvalid, code: response.CodeBadRequest, key: "error.bad_request"},
}

// ListRestaurants 后台餐厅列表
func (h *Handler) ListRestaurants(c *gin.Context) {
	page, pageSize := pageParams(c)
	restaurants, total, err := h.CatalogService.AdminListRestaurants(repository.RestaurantListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, restaurants, response.BuildPagination(page, pageSize, total))
}

// GetRestaurant 后台餐厅详情
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.CatalogService.AdminGetRestaurant(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_fetch_failed")
		return
	}
	response.Success(c, restaurant)
}

// CreateRestaurant 创建餐厅
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	restaurant, err := h.CatalogService.CreateRestaurant(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	logger.Infow("admin_restaurant_created", "operator_admin_id", currentAdminID(c), "restaurant_id", restaurant.ID)
	response.Success(c, restaurant)
}

// UpdateRestaurant 更新餐厅
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	restaurant, err := h.CatalogService.UpdateRestaurant(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	response.Success(c, restaurant)
}

// DeleteRestaurant 删除餐厅
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteRestaurant(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	logger.Infow("admin_restaurant_deleted", "operator_admin_id", currentAdminID(c), "restaurant_id", id)
	response.Success(c, nil)
}

// CreateMenuItem 新增菜品
func (h *Handler) CreateMenuItem(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.CatalogService.CreateMenuItem(c.Request.Context(), restaurantID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	response.Success(c, item)
}

// UpdateMenuItem 更新菜品
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.CatalogService.UpdateMenuItem(c.Request.Context(), restaurantID, itemID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	response.Success(c, item)
}

// DeleteMenuItem 删除菜品
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	restaurantID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteMenuItem(c.Request.Context(), restaurantID, itemID); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_update_failed")
		return
	}
	response.Success(c, nil)
}
