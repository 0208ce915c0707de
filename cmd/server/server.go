package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"SpendWise/config"
	"SpendWise/internal/middleware"
	"SpendWise/internal/router"
	"SpendWise/internal/service"
	"SpendWise/pkg/logger"
	"SpendWise/pkg/metrics"
	"SpendWise/pkg/otel"
	"SpendWise/pkg/snowflake"
	"SpendWise/pkg/token"
	"SpendWise/storage"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	defer storage.Close()

	if err := snowflake.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// OTLP endpoint 没配就跳过遥测，本地起服务不强依赖 collector
	if config.Cfg.OTLPEndpoint != "" {
		shutdownOtel, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:    config.Cfg.ServiceName,
			ServiceVersion: config.Cfg.ServiceVersion,
			Environment:    config.Cfg.Environment,
			OTLPEndpoint:   config.Cfg.OTLPEndpoint,
			SampleRatio:    config.Cfg.TracingSampleRate,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer func() {
				if err := shutdownOtel(context.Background()); err != nil {
					logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
				}
			}()

			if err := metrics.InitMetrics(); err != nil {
				logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
			}
		}
	}

	if err := token.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize token package", zap.Error(err))
	} // token 在中间件前初始化，middleware 依赖 token

	// 初始化中间件
	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	h := server.Default(server.WithHostPorts(addr))

	router.Register(h)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// 先拆会话，取消还在跑的个性化阶段
		service.Wizard().Shutdown()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
