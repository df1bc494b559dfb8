package service

import "errors"

// 通用
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// 身份与认证
var (
	ErrIdentityPending      = errors.New("identity not resolved")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailExists          = errors.New("email already exists")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrNameRequired         = errors.New("name required")
	ErrWeakPassword         = errors.New("weak password")
	ErrUserDisabled         = errors.New("user disabled")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrGuestTokenInvalid    = errors.New("guest token invalid")
	ErrAuthStateUnavailable = errors.New("auth state unavailable")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaDisabled      = errors.New("captcha disabled")
)

// 购物车
var (
	ErrCartEmpty              = errors.New("cart is empty")
	ErrCartItemInvalid        = errors.New("cart item invalid")
	ErrCartRestaurantConflict = errors.New("cart holds items from another restaurant")
	ErrCartNotLoaded          = errors.New("cart not loaded")
	ErrCartLoadFailed         = errors.New("cart load failed")
	ErrCartPersistFailed      = errors.New("cart persist failed")
	ErrCartClosed             = errors.New("cart store closed")
)

// 目录
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrCatalogInvalid     = errors.New("catalog entry invalid")
)

// 优惠码
var (
	ErrPromoNotFound     = errors.New("promo not found")
	ErrPromoLookupFailed = errors.New("promo lookup failed")
	ErrPromoInvalid      = errors.New("promo invalid")
	ErrPromoCodeExists   = errors.New("promo code exists")
)

// 结算与订单
var (
	ErrConfirmationMismatch  = errors.New("confirmation amount mismatch")
	ErrCheckoutTotalsStale   = errors.New("checkout totals stale")
	ErrOrderPersistFailed    = errors.New("order persist failed")
	ErrOrderNoExhausted      = errors.New("order number attempts exhausted")
	ErrCartClearFailed       = errors.New("cart clear failed")
	ErrGuestCheckoutDisabled = errors.New("guest checkout disabled")
)
