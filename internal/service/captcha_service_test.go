package service

import (
	"errors"
	"testing"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
)

func TestCaptchaDisabledSkipsVerification(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: false})
	if svc.Provider() != constants.CaptchaProviderNone {
		t.Fatalf("disabled captcha should report none provider")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should not verify: %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaDisabled) {
		t.Fatalf("disabled captcha should not generate, got %v", err)
	}
}

func TestCaptchaImageChallengeVerifiesOnce(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Enabled: true,
		Scenes:  config.CaptchaSceneConfig{Login: true},
	})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("challenge should carry id and image")
	}

	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing payload should require captcha, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("signup scene disabled should pass: %v", err)
	}

	answer := svc.store.Get(challenge.CaptchaID, false)
	payload := CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}
	if err := svc.Verify(constants.CaptchaSceneLogin, payload); err != nil {
		t.Fatalf("correct answer should verify: %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, payload); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("answer should be single use, got %v", err)
	}
}
