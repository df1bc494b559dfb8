package service

import (
	"context"
	"strings"
	"time"

	"github.com/foodkart-next/internal/cache"
	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/constants"
	"github.com/foodkart-next/internal/logger"

	"github.com/mojocn/base64Captcha"
	"github.com/redis/go-redis/v9"
)

const captchaCharset = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 图片验证码服务，按场景开关决定是否校验
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务；启用 Redis 时挑战答案存于 Redis，否则存于内存
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	cfg.Image = normalizeCaptchaImage(cfg.Image)
	expire := time.Duration(cfg.Image.ExpireSeconds) * time.Second
	var store base64Captcha.Store
	if client := cache.Client(); client != nil {
		store = &redisCaptchaStore{client: client, prefix: cache.Prefix(), expire: expire}
	} else {
		store = base64Captcha.NewMemoryStore(cfg.Image.MaxStore, expire)
	}
	return &CaptchaService{cfg: cfg, store: store}
}

// Provider 当前验证码提供方
func (s *CaptchaService) Provider() string {
	if s == nil || !s.cfg.Enabled {
		return constants.CaptchaProviderNone
	}
	return constants.CaptchaProviderImage
}

// SceneEnabled 场景是否需要验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if s == nil || !s.cfg.Enabled {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneSignup:
		return s.cfg.Scenes.Signup
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s.Provider() != constants.CaptchaProviderImage {
		return nil, ErrCaptchaDisabled
	}
	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		image.Height,
		image.Width,
		image.NoiseCount,
		image.ShowLine,
		image.Length,
		captchaCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	id, b64s, _, err := base64Captcha.NewCaptcha(driver, s.store).Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，答案一次性使用
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.SceneEnabled(scene) {
		return nil
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func normalizeCaptchaImage(image config.CaptchaImageConfig) config.CaptchaImageConfig {
	if image.Length < 4 || image.Length > 8 {
		image.Length = 5
	}
	if image.Width < 80 {
		image.Width = 240
	}
	if image.Height < 30 {
		image.Height = 80
	}
	if image.NoiseCount < 0 {
		image.NoiseCount = 0
	}
	if image.ExpireSeconds <= 0 {
		image.ExpireSeconds = 300
	}
	if image.MaxStore <= 0 {
		image.MaxStore = 10240
	}
	return image
}

// redisCaptchaStore base64Captcha.Store 的 Redis 实现，多副本共享挑战
type redisCaptchaStore struct {
	client *redis.Client
	prefix string
	expire time.Duration
}

func (r *redisCaptchaStore) key(id string) string {
	return r.prefix + ":captcha:" + id
}

func (r *redisCaptchaStore) Set(id string, value string) error {
	return r.client.Set(context.Background(), r.key(id), value, r.expire).Err()
}

func (r *redisCaptchaStore) Get(id string, clear bool) string {
	ctx := context.Background()
	var (
		value string
		err   error
	)
	if clear {
		value, err = r.client.GetDel(ctx, r.key(id)).Result()
	} else {
		value, err = r.client.Get(ctx, r.key(id)).Result()
	}
	if err != nil && err != redis.Nil {
		logger.Warnw("captcha_store_get_failed", "error", err)
	}
	return value
}

func (r *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	value := r.Get(id, clear)
	return value != "" && strings.EqualFold(value, strings.TrimSpace(answer))
}
