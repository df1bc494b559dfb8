package i18n

var catalog = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已失效",
		"error.forbidden":                "无权访问该资源",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.jwt_secret_missing":       "服务端未配置 JWT 密钥",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 格式错误",
		"error.token_invalid":            "无效的 token",
		"error.token_revoked":            "登录状态已失效，请重新登录",
		"error.user_disabled":            "账号已被禁用",
		"error.user_id_invalid":          "用户 ID 无效",
		"error.user_id_type_invalid":     "用户 ID 类型错误",
		"error.admin_id_invalid":         "管理员 ID 无效",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.login_too_many":           "登录尝试次数过多，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务暂不可用",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.email_exists":             "该邮箱已注册",
		"error.email_invalid":            "邮箱格式不正确",
		"error.name_required":            "请填写昵称",
		"error.password_weak":            "密码强度不足",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.captcha_required":         "请输入验证码",
		"error.captcha_invalid":          "验证码错误或已过期",
		"error.captcha_unavailable":      "验证码服务未启用",
		"error.identity_pending":         "身份尚未确认，请稍后重试",
		"error.guest_token_invalid":      "游客凭证无效",
		"error.cart_item_invalid":        "购物车商品无效",
		"error.cart_restaurant_conflict": "购物车仅支持同一家餐厅的菜品",
		"error.cart_load_failed":         "购物车加载失败，请稍后重试",
		"error.cart_update_failed":       "购物车更新失败",
		"error.cart_empty":               "购物车为空",
		"error.restaurant_not_found":     "餐厅不存在",
		"error.menu_item_not_found":      "菜品不存在",
		"error.catalog_fetch_failed":     "获取餐厅信息失败",
		"error.catalog_update_failed":    "餐厅信息更新失败",
		"error.promo_not_found":          "优惠码无效",
		"error.promo_lookup_failed":      "优惠码查询失败，请稍后重试",
		"error.promo_invalid":            "优惠码配置无效",
		"error.promo_code_exists":        "优惠码已存在",
		"error.promo_update_failed":      "优惠码保存失败",
		"error.confirmation_mismatch":    "金额不正确，请输入 %s",
		"error.checkout_totals_stale":    "购物车已变化，请重新确认金额",
		"error.order_create_failed":      "下单失败，请稍后重试",
		"error.guest_checkout_disabled":  "请先登录后再下单",
		"error.order_not_found":          "订单不存在",
		"error.order_fetch_failed":       "获取订单失败",
		"error.qrcode_failed":            "二维码生成失败",
		"error.role_invalid":             "角色无效",
		"error.authz_update_failed":      "权限更新失败",
		"error.admin_login_failed":       "账号或密码错误",
	},
	LocaleEnUS: {
		"error.bad_request":              "Invalid request",
		"error.unauthorized":             "Please sign in",
		"error.forbidden":                "Access denied",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Internal server error",
		"error.jwt_secret_missing":       "JWT secret is not configured",
		"error.auth_header_missing":      "Missing Authorization header",
		"error.auth_header_invalid":      "Malformed Authorization header",
		"error.token_invalid":            "Invalid token",
		"error.token_revoked":            "Session expired, please sign in again",
		"error.user_disabled":            "Account disabled",
		"error.user_id_invalid":          "Invalid user id",
		"error.user_id_type_invalid":     "Invalid user id type",
		"error.admin_id_invalid":         "Invalid admin id",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.login_too_many":           "Too many login attempts, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
		"error.invalid_credentials":      "Invalid email or password",
		"error.email_exists":             "Email already registered",
		"error.email_invalid":            "Invalid email address",
		"error.name_required":            "Name is required",
		"error.password_weak":            "Password is too weak",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",
		"error.captcha_required":         "Captcha is required",
		"error.captcha_invalid":          "Captcha is wrong or expired",
		"error.captcha_unavailable":      "Captcha is disabled",
		"error.identity_pending":         "Identity not resolved yet, please retry",
		"error.guest_token_invalid":      "Invalid guest token",
		"error.cart_item_invalid":        "Invalid cart item",
		"error.cart_restaurant_conflict": "Your cart can only hold items from one restaurant",
		"error.cart_load_failed":         "Could not load your cart, please retry",
		"error.cart_update_failed":       "Could not update your cart",
		"error.cart_empty":               "Your cart is empty",
		"error.restaurant_not_found":     "Restaurant not found",
		"error.menu_item_not_found":      "Menu item not found",
		"error.catalog_fetch_failed":     "Could not load restaurants",
		"error.catalog_update_failed":    "Could not save restaurant",
		"error.promo_not_found":          "Invalid promo code",
		"error.promo_lookup_failed":      "Promo lookup failed, please retry",
		"error.promo_invalid":            "Invalid promo definition",
		"error.promo_code_exists":        "Promo code already exists",
		"error.promo_update_failed":      "Could not save promo",
		"error.confirmation_mismatch":    "Incorrect amount. Please enter exactly $%s",
		"error.checkout_totals_stale":    "Your cart changed, please confirm the new total",
		"error.order_create_failed":      "Could not place your order, please retry",
		"error.guest_checkout_disabled":  "Please sign in to place an order",
		"error.order_not_found":          "Order not found",
		"error.order_fetch_failed":       "Could not load orders",
		"error.qrcode_failed":            "Could not render QR code",
		"error.role_invalid":             "Invalid role",
		"error.authz_update_failed":      "Could not update permissions",
		"error.admin_login_failed":       "Invalid username or password",
	},
}
