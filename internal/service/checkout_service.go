package service

import (
	"context"
	"strings"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
)

// CheckoutPreview 结算预览
type CheckoutPreview struct {
	Items  models.CartLines `json:"items"`
	Totals PricedTotals     `json:"totals"`
	Promo  *DiscountRule    `json:"promo,omitempty"`
}

// PlaceOrderInput 下单参数
type PlaceOrderInput struct {
	PromoCode     string
	ConfirmAmount string
	ClientIP      string
}

// CheckoutService 结算：报价、金额确认、提交订单
type CheckoutService struct {
	cfg       config.OrderConfig
	sessions  *CartSessions
	promos    *PromoService
	pricing   *PricingEngine
	gate      PaymentGate
	committer *OrderCommitter
	userAuth  *UserAuthService
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cfg config.OrderConfig,
	sessions *CartSessions,
	promos *PromoService,
	pricing *PricingEngine,
	gate PaymentGate,
	committer *OrderCommitter,
	userAuth *UserAuthService,
) *CheckoutService {
	return &CheckoutService{
		cfg:       cfg,
		sessions:  sessions,
		promos:    promos,
		pricing:   pricing,
		gate:      gate,
		committer: committer,
		userAuth:  userAuth,
	}
}

// Preview 报价；优惠码不存在返回 ErrPromoNotFound
func (s *CheckoutService) Preview(ctx context.Context, identity Identity, promoCode string) (*CheckoutPreview, error) {
	rule, err := s.resolveRule(ctx, promoCode)
	if err != nil {
		return nil, err
	}
	var preview *CheckoutPreview
	err = s.sessions.With(ctx, identity, func(store *CartStore) error {
		lines := store.Lines()
		preview = &CheckoutPreview{Items: lines, Totals: s.pricing.Quote(lines, rule), Promo: rule}
		return nil
	})
	return preview, err
}

// PlaceOrder 确认金额后提交订单
func (s *CheckoutService) PlaceOrder(ctx context.Context, identity Identity, input PlaceOrderInput) (*CommitResult, error) {
	if identity.IsGuest() && !s.cfg.AllowGuestCheckout {
		return nil, ErrGuestCheckoutDisabled
	}
	rule, err := s.resolveRule(ctx, input.PromoCode)
	if err != nil {
		return nil, err
	}

	var result *CommitResult
	err = s.sessions.With(ctx, identity, func(store *CartStore) error {
		lines := store.Lines()
		if len(lines) == 0 {
			return ErrCartEmpty
		}
		totals := s.pricing.Quote(lines, rule)
		if err := s.gate.Confirm(totals, input.ConfirmAmount); err != nil {
			return err
		}
		committed, err := s.committer.Commit(ctx, store, CommitInput{
			Identity: identity,
			Rule:     rule,
			Totals:   totals,
			UserName: s.userName(identity),
			ClientIP: input.ClientIP,
		})
		if err != nil {
			return err
		}
		result = committed
		return nil
	})
	return result, err
}

func (s *CheckoutService) resolveRule(ctx context.Context, code string) (*DiscountRule, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	rule, found, err := s.promos.ResolvePromo(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPromoNotFound
	}
	return rule, nil
}

func (s *CheckoutService) userName(identity Identity) string {
	if !identity.IsAuthenticated() {
		return constants.GuestUserName
	}
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	if s.userAuth != nil {
		user, err := s.userAuth.GetUserByID(identity.UserID)
		if err != nil {
			logger.Debugw("checkout_user_lookup_failed", "user_id", identity.UserID, "error", err)
		} else if user != nil && strings.TrimSpace(user.DisplayName) != "" {
			return user.DisplayName
		}
	}
	if identity.Email != "" {
		return identity.Email
	}
	return constants.GuestUserName
}
