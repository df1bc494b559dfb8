package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 管理员认证服务
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAuthService 创建管理员认证服务
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
	}
}

// JWTClaims 管理员 JWT 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AdminPrincipal 通过校验的管理员身份
type AdminPrincipal struct {
	AdminID  uint
	Username string
	IsSuper  bool
}

// GenerateJWT 生成管理员 JWT
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := JWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析管理员 JWT
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// AuthenticateToken 校验管理员 token 并返回身份
func (s *AuthService) AuthenticateToken(ctx context.Context, tokenString string) (*AdminPrincipal, error) {
	if strings.TrimSpace(s.cfg.JWT.SecretKey) == "" {
		return nil, ErrTokenInvalid
	}
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, err
	}
	state, hit, cacheErr := cache.GetAuthState(ctx, cache.AuthSubjectAdmin, claims.AdminID)
	if cacheErr != nil || !hit || state == nil {
		admin, err := s.adminRepo.GetByID(claims.AdminID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthStateUnavailable, err)
		}
		if admin == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.AdminAuthState(admin)
		_ = cache.SetAuthState(ctx, state)
	}
	if claims.TokenVersion != state.TokenVersion || !issuedAfterUnix(claims.IssuedAt, state.TokenInvalidBefore) {
		return nil, ErrTokenRevoked
	}
	return &AdminPrincipal{AdminID: claims.AdminID, Username: claims.Username, IsSuper: state.IsSuper}, nil
}

// Login 管理员登录
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetAuthState(context.Background(), cache.AdminAuthState(admin))
	return admin, token, expiresAt, nil
}

// ListAdmins 管理员列表
func (s *AuthService) ListAdmins() ([]models.Admin, error) {
	return s.adminRepo.List()
}
