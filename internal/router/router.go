package router

import (
	"sort"
	"strings"

	"github.com/foodkart-next/internal/authz"
	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/config"
	adminhandlers "github.com/foodkart-next/internal/http/handlers/admin"
	publichandlers "github.com/foodkart-next/internal/http/handlers/public"
	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        cache.Prefix() + ":rate:login",
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := loginRule
	adminLoginRule.Prefix = cache.Prefix() + ":rate:admin_login"

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	identity := IdentityMiddleware(c.IdentityResolver, false)
	requireUser := RequireUserMiddleware()

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/restaurants", publicHandler.ListRestaurants)
			public.GET("/restaurants/:id", publicHandler.GetRestaurant)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 登录/注册允许携带过期 token，按游客身份合并购物车
		auth := apiV1.Group("/auth")
		{
			signIn := IdentityMiddleware(c.IdentityResolver, true)
			auth.POST("/signup", signIn, publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), signIn, publicHandler.Login)
			auth.POST("/logout", identity, requireUser, publicHandler.Logout)
		}

		cart := apiV1.Group("/cart", identity)
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.GET("/quote", publicHandler.QuoteCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PATCH("/items/:item_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:item_id", publicHandler.RemoveCartItem)
		}

		checkout := apiV1.Group("/checkout", identity)
		{
			checkout.POST("", publicHandler.PlaceOrder)
			checkout.POST("/preview", publicHandler.PreviewCheckout)
		}

		orders := apiV1.Group("/orders", identity)
		{
			orders.GET("", requireUser, publicHandler.ListOrders)
			orders.GET("/:order_no", publicHandler.GetOrder)
			orders.GET("/:order_no/qrcode", publicHandler.GetOrderQRCode)
		}

		apiV1.GET("/me", identity, requireUser, publicHandler.GetMe)

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Group("", AdminJWTMiddleware(c.AuthService, cfg.JWT.SecretKey), AdminRBACMiddleware(c.AuthzService))
			{
				// 餐厅与菜单
				authorized.GET("/restaurants", adminHandler.ListRestaurants)
				authorized.POST("/restaurants", adminHandler.CreateRestaurant)
				authorized.GET("/restaurants/:id", adminHandler.GetRestaurant)
				authorized.PUT("/restaurants/:id", adminHandler.UpdateRestaurant)
				authorized.DELETE("/restaurants/:id", adminHandler.DeleteRestaurant)
				authorized.POST("/restaurants/:id/items", adminHandler.CreateMenuItem)
				authorized.PUT("/restaurants/:id/items/:item_id", adminHandler.UpdateMenuItem)
				authorized.DELETE("/restaurants/:id/items/:item_id", adminHandler.DeleteMenuItem)

				// 优惠码
				authorized.GET("/promos", adminHandler.ListPromos)
				authorized.POST("/promos", adminHandler.CreatePromo)
				authorized.GET("/promos/:code", adminHandler.GetPromo)
				authorized.PUT("/promos/:code", adminHandler.UpdatePromo)
				authorized.DELETE("/promos/:code", adminHandler.DeletePromo)

				// 订单
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:order_no", adminHandler.GetOrder)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 从已注册的后台路由生成可授权资源列表
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}
	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))
	for _, route := range routes {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") || route.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := method + ":" + object
		if _, ok := seen[permission]; ok {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     adminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Module != items[j].Module {
			return items[i].Module < items[j].Module
		}
		if items[i].Object != items[j].Object {
			return items[i].Object < items[j].Object
		}
		return items[i].Method < items[j].Method
	})
	return items
}

// adminPermissionModule /admin/restaurants/:id/items -> restaurants
func adminPermissionModule(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	if len(segments) >= 2 && segments[0] == "admin" {
		return segments[1]
	}
	if segments[0] == "" {
		return "system"
	}
	return segments[0]
}
