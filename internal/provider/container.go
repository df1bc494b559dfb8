package provider

import (
	"context"
	"errors"
	"time"

	"github.com/foodkart-next/internal/authz"
	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/docstore"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/queue"
	"github.com/foodkart-next/internal/repository"
	"github.com/foodkart-next/internal/service"

	"cloud.google.com/go/firestore"
	"gorm.io/gorm"
)

const defaultGuestCartTTLHours = 24 * 7

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	firestore   *firestore.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	UserRepo       repository.UserRepository
	RestaurantRepo repository.RestaurantRepository
	CartRepo       repository.CartRepository
	GuestCartRepo  repository.GuestCartRepository
	OrderRepo      repository.OrderRepository
	PromoRepo      repository.PromoRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	CaptchaService   *service.CaptchaService
	IdentityResolver *service.IdentityResolver
	PricingEngine    *service.PricingEngine
	CatalogService   *service.CatalogService
	PromoService     *service.PromoService
	CartSessions     *service.CartSessions
	CartService      *service.CartService
	OrderCommitter   *service.OrderCommitter
	CheckoutService  *service.CheckoutService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}
	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and db are required")
	}
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	if err := c.initRepositories(db); err != nil {
		return nil, err
	}

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) error {
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.RestaurantRepo = repository.NewRestaurantRepository(db)

	if c.Config.Storage.UseFirestore() {
		client, err := docstore.NewClient(context.Background(), c.Config.Storage.Firestore.ProjectID)
		if err != nil {
			logger.Errorw("provider_init_firestore_failed", "error", err)
			return err
		}
		c.firestore = client
		collections := docstore.NewCollections(c.Config.Storage.Firestore.CollectionPrefix)
		c.CartRepo = docstore.NewCartRepository(client, collections)
		c.OrderRepo = docstore.NewOrderRepository(client, collections)
		c.PromoRepo = docstore.NewPromoRepository(client, collections)
		logger.Infow("provider_storage_selected", "driver", "firestore")
	} else {
		c.CartRepo = repository.NewCartRepository(db)
		c.OrderRepo = repository.NewOrderRepository(db)
		c.PromoRepo = repository.NewPromoRepository(db)
		logger.Infow("provider_storage_selected", "driver", "database")
	}

	ttlHours := c.Config.Cart.GuestTTLHours
	if ttlHours <= 0 {
		ttlHours = defaultGuestCartTTLHours
	}
	ttl := time.Duration(ttlHours) * time.Hour
	if client := cache.Client(); client != nil {
		c.GuestCartRepo = repository.NewRedisGuestCartRepository(client, cache.Prefix(), ttl)
	} else {
		c.GuestCartRepo = repository.NewMemoryGuestCartRepository(ttl)
	}
	return nil
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	pricing, err := service.NewPricingEngine(c.Config.Pricing)
	if err != nil {
		logger.Errorw("provider_init_pricing_failed", "error", err)
		return err
	}
	c.PricingEngine = pricing

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.IdentityResolver = service.NewIdentityResolver(c.UserAuthService, c.CaptchaService)
	c.CatalogService = service.NewCatalogService(c.RestaurantRepo)
	c.PromoService = service.NewPromoService(c.PromoRepo)

	c.CartSessions = service.NewCartSessions(c.Config.Cart, c.CartRepo, c.GuestCartRepo)
	c.IdentityResolver.OnChange(c.CartSessions.HandleIdentityChange)
	c.CartService = service.NewCartService(c.CartSessions, c.CatalogService, c.PricingEngine)

	var notifier service.OrderPlacedNotifier
	if c.QueueClient != nil {
		notifier = c.QueueClient
	}
	c.OrderCommitter = service.NewOrderCommitter(c.OrderRepo, c.PricingEngine, notifier, c.CartSessions.FlushTimeout())
	c.CheckoutService = service.NewCheckoutService(
		c.Config.Order,
		c.CartSessions,
		c.PromoService,
		c.PricingEngine,
		service.NewAmountConfirmationGate(),
		c.OrderCommitter,
		c.UserAuthService,
	)
	c.OrderService = service.NewOrderService(c.Config.Order, c.OrderRepo)
	return nil
}

// Close 刷新未落盘的购物车并释放外部连接
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.CartSessions != nil {
		if err := c.CartSessions.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.firestore != nil {
		if err := c.firestore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
