package app

import (
	"errors"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/events"
	"github.com/foodkart-next/internal/provider"
	"github.com/foodkart-next/internal/router"
	"github.com/foodkart-next/internal/worker"
)

// BuildRunner 按启动模式组装服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services,
			NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine),
			NewCartJanitor(container.CartSessions, cfg.Cart),
		)
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container.OrderRepo, events.NewPublisher(&cfg.Events))
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			if mode == ModeWorker {
				return nil, err
			}
			// all 模式下队列未启用时仅运行 API
		} else {
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...).WithCloser(container), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
