package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/repository"
)

func newTestUserAuth(t *testing.T) *UserAuthService {
	t.Helper()
	cfg := &config.Config{
		UserJWT:  config.JWTConfig{SecretKey: "identity-test-secret", ExpireHours: 24, RememberMeExpireHours: 168},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6}},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(openServiceTestDB(t)))
}

func newTestResolver(t *testing.T) *IdentityResolver {
	t.Helper()
	return NewIdentityResolver(newTestUserAuth(t), NewCaptchaService(config.CaptchaConfig{}))
}

func TestIdentityKeys(t *testing.T) {
	if PendingIdentity().Resolved() {
		t.Fatalf("pending identity must not be resolved")
	}
	if key := GuestIdentity(testGuestToken).Key(); key != "guest:"+testGuestToken {
		t.Fatalf("unexpected guest key: %s", key)
	}
	user := AuthenticatedIdentity(testUser(42), testGuestToken)
	if !user.Resolved() || user.Key() != "user:42" {
		t.Fatalf("unexpected user identity: %+v key=%s", user, user.Key())
	}
	if (Identity{Kind: constants.IdentityKindGuest}).Resolved() {
		t.Fatalf("guest without token must not be resolved")
	}
}

func TestSignupNotifiesGuestToAuthenticated(t *testing.T) {
	resolver := newTestResolver(t)
	var changes []IdentityChange
	unsubscribe := resolver.OnChange(func(_ context.Context, change IdentityChange) error {
		changes = append(changes, change)
		return nil
	})

	guest := GuestIdentity(testGuestToken)
	result, err := resolver.Signup(context.Background(), SignupInput{Name: "Ada", Email: "Ada@Example.com", Password: "secret1"}, guest)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if result.Token == "" || result.User.Email != "ada@example.com" || result.User.DisplayName != "Ada" {
		t.Fatalf("unexpected signup result: %+v", result.User)
	}
	if len(changes) != 1 || changes[0].From.Key() != guest.Key() || !changes[0].To.IsAuthenticated() {
		t.Fatalf("signup should notify guest to authenticated, got %+v", changes)
	}
	if changes[0].To.GuestToken != testGuestToken {
		t.Fatalf("new identity should carry the device guest token for migration")
	}

	if _, err := resolver.Signup(context.Background(), SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}, guest); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email should fail, got %v", err)
	}

	unsubscribe()
	if _, err := resolver.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1"}, guest); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("unsubscribed listener should not be called")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	resolver := newTestResolver(t)
	if _, err := resolver.Signup(context.Background(), SignupInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"}, PendingIdentity()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := resolver.Login(context.Background(), LoginInput{Email: "bob@example.com", Password: "wrong-pass"}, GuestIdentity(testGuestToken)); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password should fail, got %v", err)
	}
	if _, err := resolver.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret1"}, GuestIdentity(testGuestToken)); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should fail, got %v", err)
	}
}

func TestResolveTokenAndLogout(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver(t)

	guest, err := resolver.ResolveToken(ctx, "", testGuestToken)
	if err != nil || !guest.IsGuest() {
		t.Fatalf("guest token should resolve to guest: %+v %v", guest, err)
	}
	if _, err := resolver.ResolveToken(ctx, "", "not-a-uuid"); !errors.Is(err, ErrGuestTokenInvalid) {
		t.Fatalf("malformed guest token should fail, got %v", err)
	}
	if _, err := resolver.ResolveToken(ctx, "garbage", testGuestToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("malformed bearer should fail, got %v", err)
	}

	result, err := resolver.Signup(ctx, SignupInput{Name: "Cy", Email: "cy@example.com", Password: "secret1"}, guest)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	identity, err := resolver.ResolveToken(ctx, result.Token, testGuestToken)
	if err != nil {
		t.Fatalf("resolve bearer failed: %v", err)
	}
	if !identity.IsAuthenticated() || identity.UserID != result.User.ID || identity.GuestToken != testGuestToken {
		t.Fatalf("unexpected resolved identity: %+v", identity)
	}

	var changes []IdentityChange
	resolver.OnChange(func(_ context.Context, change IdentityChange) error {
		changes = append(changes, change)
		return errInjected
	})
	next, err := resolver.Logout(ctx, identity)
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !next.IsGuest() || next.GuestToken != testGuestToken {
		t.Fatalf("logout should return to the device guest identity, got %+v", next)
	}
	if len(changes) != 1 || changes[0].From.Key() != identity.Key() {
		t.Fatalf("logout should notify authenticated to guest, got %+v", changes)
	}
	if _, err := resolver.ResolveToken(ctx, result.Token, testGuestToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("token should be revoked after logout, got %v", err)
	}
	if _, err := resolver.Logout(ctx, next); !errors.Is(err, ErrIdentityPending) {
		t.Fatalf("guest logout should be rejected, got %v", err)
	}
}
