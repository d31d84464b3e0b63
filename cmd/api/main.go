package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"petstore-user/internal/core/config"
	"petstore-user/internal/core/logger"
	"petstore-user/internal/core/server"
	"petstore-user/internal/feature/user"
	"petstore-user/internal/repo"
	"petstore-user/internal/service"
	"petstore-user/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l, cleanup := logger.New(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.Rotate.Enable,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(l, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	// 依赖
	mode, err := service.ParseReadMode(cfg.User.ReadMode)
	if err != nil {
		l.Fatal("user read mode", zap.Error(err))
	}
	if mode == service.ModeStub {
		l.Warn("user api runs in stub mode: GET returns a fixed record, POST stores nothing")
	}
	store := repo.NewMemoryUserStore()
	userSvc := service.NewUserService(store, service.Options{Mode: mode, BcryptCost: cfg.User.BcryptCost})
	reg := router.NewRegistry(user.NewModule(l, userSvc, store))

	// 路由
	r := router.NewAPIEngine(l, router.Options{
		Mode:     cfg.GinMode(),
		BasePath: cfg.App.HTTP.BasePath,
		Limits: router.Limits{
			RPS:           cfg.Limits.RPS,
			Burst:         cfg.Limits.Burst,
			PerIPRPS:      cfg.Limits.PerIPRPS,
			PerIPBurst:    cfg.Limits.PerIPBurst,
			MaxConcurrent: cfg.Limits.MaxConcurrent,
			MaxBodyBytes:  cfg.Limits.MaxBodyBytes,
			Timeout:       cfg.Limits.Timeout(),
		},
	}, reg)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if errLog, err := logger.ToStdLogger(l, zapcore.ErrorLevel); err == nil {
		srv.ErrorLog = errLog
	}

	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	l.Info("user api starting",
		zap.String("app", cfg.App.Name),
		zap.String("addr", addr),
		zap.String("mode", string(mode)),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("users", baseURL+cfg.App.HTTP.BasePath+"/user"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Warn("shutdown", zap.Error(err))
	}
	l.Info("user api stopped gracefully")
}
