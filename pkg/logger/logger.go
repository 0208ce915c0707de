package logger

import (
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"SpendWise/config"
)

// Logger 是全局 zap 实例, Init 之后才可用
var (
	Logger   *zap.Logger
	logClose io.Closer
)

// Init 初始化全局日志, 并把 hertz 的 hlog 接到同一个 zap core 上
func Init() {
	level := parseZapLevel(config.Cfg.LoggerLevel)

	atomic := zap.NewAtomicLevelAt(level)

	hzLogger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder()),
		hertzzap.WithCoreWs(openWriteSyncer()),
		hertzzap.WithCoreLevel(atomic),
		hertzzap.WithZapOptions(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(zap.String("service", config.Cfg.ServiceName)),
		),
	)

	hlog.SetLogger(hzLogger)
	hlog.SetLevel(toHlogLevel(level))

	Logger = hzLogger.Logger()
	Logger.Info("Logger initialized successfully",
		zap.String("level", level.CapitalString()),
		zap.String("format", config.Cfg.LoggerFormat),
		zap.String("environment", config.Cfg.Environment),
	)
}

// Sync 刷盘并关闭日志文件, 进程退出前 defer 调用
func Sync() {
	if Logger != nil {
		// stdout 上 Sync 会报 EINVAL, 忽略即可
		_ = Logger.Sync()
	}
	if logClose != nil {
		_ = logClose.Close()
	}
}

// 开发环境用带颜色的 console 编码, 其余一律 JSON
func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder

	if config.Cfg.IsDevelopment() || strings.EqualFold(config.Cfg.LoggerFormat, "text") {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func openWriteSyncer() zapcore.WriteSyncer {
	path := config.Cfg.LoggerOutputPath
	if path == "" || strings.EqualFold(path, "stdout") {
		return zapcore.AddSync(os.Stdout)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	logClose = file

	return zapcore.AddSync(file)
}

func parseZapLevel(level string) zapcore.Level {
	if l, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zapcore.InfoLevel
}

func toHlogLevel(level zapcore.Level) hlog.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return hlog.LevelDebug
	case level == zapcore.InfoLevel:
		return hlog.LevelInfo
	case level == zapcore.WarnLevel:
		return hlog.LevelWarn
	default:
		return hlog.LevelError
	}
}
