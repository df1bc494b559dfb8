package public

import (
	"errors"

	"github.com/foodkart-next/internal/http/response"
	"github.com/foodkart-next/internal/i18n"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var identityErrorRules = []mappedHandlerError{
	{target: service.ErrIdentityPending, code: response.CodeInternal, key: "error.identity_pending"},
	{target: service.ErrGuestTokenInvalid, code: response.CodeBadRequest, key: "error.guest_token_invalid"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrNameRequired, code: response.CodeBadRequest, key: "error.name_required"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrCartRestaurantConflict, code: response.CodeConflict, key: "error.cart_restaurant_conflict"},
	{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, key: "error.restaurant_not_found"},
	{target: service.ErrMenuItemNotFound, code: response.CodeNotFound, key: "error.menu_item_not_found"},
	{target: service.ErrCartLoadFailed, code: response.CodeUnavailable, key: "error.cart_load_failed"},
	{target: service.ErrCartNotLoaded, code: response.CodeUnavailable, key: "error.cart_load_failed"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrPromoNotFound, code: response.CodeBadRequest, key: "error.promo_not_found"},
	{target: service.ErrPromoLookupFailed, code: response.CodeUnavailable, key: "error.promo_lookup_failed"},
	{target: service.ErrCheckoutTotalsStale, code: response.CodeConflict, key: "error.checkout_totals_stale"},
	{target: service.ErrGuestCheckoutDisabled, code: response.CodeUnauthorized, key: "error.guest_checkout_disabled"},
	{target: service.ErrOrderPersistFailed, code: response.CodeInternal, key: "error.order_create_failed"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	var policyErr service.PasswordPolicyError
	if errors.As(err, &policyErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), policyErr.Key(), policyErr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, fallbackKey)
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(identityErrorRules, cartErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	var mismatch *service.ConfirmationMismatchError
	if errors.As(err, &mismatch) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.confirmation_mismatch", mismatch.Expected)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(identityErrorRules, cartErrorRules, checkoutErrorRules), response.CodeInternal, "error.order_create_failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(identityErrorRules, orderErrorRules), response.CodeInternal, "error.order_fetch_failed")
}
