package service

import (
	"unicode"

	"github.com/foodkart-next/internal/config"
)

// PasswordPolicyError 密码策略错误，携带 i18n key 与参数
type PasswordPolicyError struct {
	key  string
	args []interface{}
}

func (e PasswordPolicyError) Error() string {
	return e.key
}

// Is 与 ErrWeakPassword 等价
func (e PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key i18n key
func (e PasswordPolicyError) Key() string {
	return e.key
}

// Args i18n 参数
func (e PasswordPolicyError) Args() []interface{} {
	return e.args
}

type passwordClasses struct {
	upper, lower, number, special bool
}

func classifyPassword(password string) passwordClasses {
	var c passwordClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.number = true
		default:
			c.special = true
		}
	}
	return c
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return PasswordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}
	classes := classifyPassword(password)
	rules := []struct {
		required bool
		present  bool
		key      string
	}{
		{policy.RequireUpper, classes.upper, "error.password_require_upper"},
		{policy.RequireLower, classes.lower, "error.password_require_lower"},
		{policy.RequireNumber, classes.number, "error.password_require_number"},
		{policy.RequireSpecial, classes.special, "error.password_require_special"},
	}
	for _, rule := range rules {
		if rule.required && !rule.present {
			return PasswordPolicyError{key: rule.key}
		}
	}
	return nil
}
