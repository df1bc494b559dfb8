package constants

// 订单状态常量
const (
	OrderStatusConfirmed = "confirmed"
)

// 优惠码类型常量
const (
	PromoKindPercentage = "percentage"
	PromoKindFlat       = "flat"
)

// 身份类型常量
const (
	IdentityKindPending       = "pending"
	IdentityKindGuest         = "guest"
	IdentityKindAuthenticated = "authenticated"
)

// 购物车归属前缀
const (
	CartOwnerUserPrefix  = "user:"
	CartOwnerGuestPrefix = "guest:"
)

// 游客下单默认称呼
const (
	GuestUserName = "Guest User"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin  = "login"
	CaptchaSceneSignup = "signup"
)

// 队列常量
const (
	QueueDefault     = "default"
	TaskOrderPlaced  = "order:placed"
	EventOrderPlaced = "OrderPlaced"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "fk"
)

// 请求头常量
const (
	HeaderGuestToken = "X-Guest-Token"
	HeaderRequestID  = "X-Request-ID"
)

// 订单号范围（6 位数字）
const (
	OrderNoMin         = 100000
	OrderNoMax         = 999999
	OrderNoMaxAttempts = 5
)
