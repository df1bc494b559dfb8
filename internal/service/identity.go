package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"

	"github.com/google/uuid"
)

// Identity 当前操作者身份；Pending 表示尚未完成解析
type Identity struct {
	Kind        string `json:"kind"`
	UserID      uint   `json:"user_id,omitempty"`
	GuestToken  string `json:"-"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// PendingIdentity 未解析身份
func PendingIdentity() Identity {
	return Identity{Kind: constants.IdentityKindPending}
}

// GuestIdentity 游客身份
func GuestIdentity(guestToken string) Identity {
	return Identity{Kind: constants.IdentityKindGuest, GuestToken: guestToken}
}

// AuthenticatedIdentity 登录身份；guestToken 为同一设备的游客凭证，用于首次登录时迁移购物车
func AuthenticatedIdentity(user *models.User, guestToken string) Identity {
	return Identity{
		Kind:        constants.IdentityKindAuthenticated,
		UserID:      user.ID,
		GuestToken:  guestToken,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// Resolved 是否已离开 Pending
func (i Identity) Resolved() bool {
	switch i.Kind {
	case constants.IdentityKindGuest:
		return i.GuestToken != ""
	case constants.IdentityKindAuthenticated:
		return i.UserID != 0
	default:
		return false
	}
}

// IsAuthenticated 是否登录用户
func (i Identity) IsAuthenticated() bool {
	return i.Kind == constants.IdentityKindAuthenticated && i.UserID != 0
}

// IsGuest 是否游客
func (i Identity) IsGuest() bool {
	return i.Kind == constants.IdentityKindGuest && i.GuestToken != ""
}

// Key 购物车归属键：user:<id> 或 guest:<token>
func (i Identity) Key() string {
	switch {
	case i.IsAuthenticated():
		return fmt.Sprintf("%s%d", constants.CartOwnerUserPrefix, i.UserID)
	case i.IsGuest():
		return constants.CartOwnerGuestPrefix + i.GuestToken
	default:
		return ""
	}
}

// IdentityChange 身份切换事件
type IdentityChange struct {
	From Identity
	To   Identity
}

// IdentityListener 身份切换监听器，按注册顺序同步调用
type IdentityListener func(ctx context.Context, change IdentityChange) error

// AuthResult 登录/注册结果
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// SignupInput 注册参数
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Captcha  CaptchaVerifyPayload
}

// LoginInput 登录参数
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	Captcha    CaptchaVerifyPayload
}

type identityListenerEntry struct {
	id uint64
	fn IdentityListener
}

// IdentityResolver 身份解析与切换通知
type IdentityResolver struct {
	userAuth *UserAuthService
	captcha  *CaptchaService

	mu        sync.RWMutex
	nextID    uint64
	listeners []identityListenerEntry
}

// NewIdentityResolver 创建身份解析器
func NewIdentityResolver(userAuth *UserAuthService, captcha *CaptchaService) *IdentityResolver {
	return &IdentityResolver{userAuth: userAuth, captcha: captcha}
}

// OnChange 注册身份切换监听，返回取消函数
func (r *IdentityResolver) OnChange(listener IdentityListener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, identityListenerEntry{id: id, fn: listener})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, entry := range r.listeners {
			if entry.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *IdentityResolver) notify(ctx context.Context, change IdentityChange) {
	r.mu.RLock()
	listeners := make([]identityListenerEntry, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, entry := range listeners {
		if err := entry.fn(ctx, change); err != nil {
			logger.Warnw("identity_listener_failed",
				"from", change.From.Key(),
				"to", change.To.Key(),
				"error", err,
			)
		}
	}
}

// Signup 注册并切换为登录身份
func (r *IdentityResolver) Signup(ctx context.Context, input SignupInput, from Identity) (*AuthResult, error) {
	if err := r.captcha.Verify(constants.CaptchaSceneSignup, input.Captcha); err != nil {
		return nil, err
	}
	user, token, expiresAt, err := r.userAuth.Signup(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	return r.completeSignIn(ctx, user, token, expiresAt, from), nil
}

// Login 登录并切换为登录身份
func (r *IdentityResolver) Login(ctx context.Context, input LoginInput, from Identity) (*AuthResult, error) {
	if err := r.captcha.Verify(constants.CaptchaSceneLogin, input.Captcha); err != nil {
		return nil, err
	}
	user, token, expiresAt, err := r.userAuth.Login(input.Email, input.Password, input.RememberMe)
	if err != nil {
		return nil, err
	}
	return r.completeSignIn(ctx, user, token, expiresAt, from), nil
}

func (r *IdentityResolver) completeSignIn(ctx context.Context, user *models.User, token string, expiresAt time.Time, from Identity) *AuthResult {
	to := AuthenticatedIdentity(user, from.GuestToken)
	if from.IsGuest() {
		r.notify(ctx, IdentityChange{From: from, To: to})
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt, Identity: to}
}

// Logout 失效该用户的 token 并切换回游客身份
func (r *IdentityResolver) Logout(ctx context.Context, identity Identity) (Identity, error) {
	if !identity.IsAuthenticated() {
		return identity, ErrIdentityPending
	}
	if err := r.userAuth.Logout(ctx, identity.UserID); err != nil {
		return identity, err
	}
	guestToken := identity.GuestToken
	if guestToken == "" {
		guestToken = NewGuestToken()
	}
	to := GuestIdentity(guestToken)
	r.notify(ctx, IdentityChange{From: identity, To: to})
	return to, nil
}

// ResolveToken 根据 Bearer token 与游客凭证解析身份
// token 无效返回鉴权错误；依赖不可用时返回 Pending 与 ErrIdentityPending
func (r *IdentityResolver) ResolveToken(ctx context.Context, bearer, guestToken string) (Identity, error) {
	guestToken = strings.TrimSpace(guestToken)
	if guestToken != "" && !ValidGuestToken(guestToken) {
		return PendingIdentity(), ErrGuestTokenInvalid
	}
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		if guestToken == "" {
			return PendingIdentity(), ErrGuestTokenInvalid
		}
		return GuestIdentity(guestToken), nil
	}

	claims, err := r.userAuth.AuthenticateToken(ctx, bearer)
	if err != nil {
		if errors.Is(err, ErrAuthStateUnavailable) {
			return PendingIdentity(), fmt.Errorf("%w: %v", ErrIdentityPending, err)
		}
		return PendingIdentity(), err
	}
	return Identity{
		Kind:       constants.IdentityKindAuthenticated,
		UserID:     claims.UserID,
		GuestToken: guestToken,
		Email:      claims.Email,
	}, nil
}

// NewGuestToken 生成游客凭证
func NewGuestToken() string {
	return uuid.NewString()
}

// ValidGuestToken 游客凭证必须是 UUID
func ValidGuestToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil && len(token) == 36
}
