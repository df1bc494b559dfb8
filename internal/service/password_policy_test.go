package service

import (
	"errors"
	"testing"

	"github.com/foodkart-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 6, RequireNumber: true}
	cases := []struct {
		password string
		key      string
	}{
		{password: "abc", key: "error.password_min_length"},
		{password: "abcdef", key: "error.password_require_number"},
		{password: "abcde1", key: ""},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("password %q should pass: %v", tc.password, err)
			}
			continue
		}
		var policyErr PasswordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
			t.Fatalf("password %q expected %s got %v", tc.password, tc.key, err)
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("policy error should match ErrWeakPassword")
		}
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, ""); err != nil {
		t.Fatalf("empty policy should accept anything: %v", err)
	}
}
