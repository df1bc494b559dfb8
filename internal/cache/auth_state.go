package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/foodkart-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AuthSubject 鉴权主体类型
type AuthSubject string

const (
	AuthSubjectUser  AuthSubject = "user"
	AuthSubjectAdmin AuthSubject = "admin"
)

// AuthState 鉴权快照，token_invalid_before 为 Unix 秒，0 表示未设置
type AuthState struct {
	Subject            AuthSubject `json:"subject"`
	ID                 uint        `json:"id"`
	Status             string      `json:"status,omitempty"`
	Username           string      `json:"username,omitempty"`
	IsSuper            bool        `json:"is_super,omitempty"`
	TokenVersion       uint64      `json:"token_version"`
	TokenInvalidBefore int64       `json:"token_invalid_before"`
	UpdatedAt          int64       `json:"updated_at"`
}

func authStateKey(subject AuthSubject, id uint) string {
	return fmt.Sprintf("auth:%s:%d", subject, id)
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// UserAuthState 从用户模型构建鉴权快照
func UserAuthState(user *models.User) *AuthState {
	if user == nil {
		return nil
	}
	return &AuthState{
		Subject:            AuthSubjectUser,
		ID:                 user.ID,
		Status:             user.Status,
		TokenVersion:       user.TokenVersion,
		TokenInvalidBefore: unixOrZero(user.TokenInvalidBefore),
		UpdatedAt:          time.Now().Unix(),
	}
}

// AdminAuthState 从管理员模型构建鉴权快照
func AdminAuthState(admin *models.Admin) *AuthState {
	if admin == nil {
		return nil
	}
	return &AuthState{
		Subject:            AuthSubjectAdmin,
		ID:                 admin.ID,
		Username:           admin.Username,
		IsSuper:            admin.IsSuper,
		TokenVersion:       admin.TokenVersion,
		TokenInvalidBefore: unixOrZero(admin.TokenInvalidBefore),
		UpdatedAt:          time.Now().Unix(),
	}
}

// GetAuthState 获取鉴权快照
func GetAuthState(ctx context.Context, subject AuthSubject, id uint) (*AuthState, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var state AuthState
	hit, err := GetJSON(ctx, authStateKey(subject, id), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAuthState 写入鉴权快照
func SetAuthState(ctx context.Context, state *AuthState) error {
	if state == nil || state.ID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.Subject, state.ID), state, authStateCacheTTL)
}

// DelAuthState 删除鉴权快照
func DelAuthState(ctx context.Context, subject AuthSubject, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, authStateKey(subject, id))
}
