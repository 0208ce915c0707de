package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 引导向导相关指标
	OnboardingCompletedTotal    metric.Int64Counter
	OnboardingStepAdvanceTotal  metric.Int64Counter
	OnboardingSaveDuration      metric.Float64Histogram
	OnboardingSaveFallbackTotal metric.Int64Counter
	OnboardingSaveFailedTotal   metric.Int64Counter
	OnboardingActiveSessions    metric.Int64UpDownCounter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("spendwise")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.OnboardingCompletedTotal, err = meter.Int64Counter(
		"onboarding_completed_total",
		metric.WithDescription("Total number of completed onboarding sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.OnboardingStepAdvanceTotal, err = meter.Int64Counter(
		"onboarding_step_advance_total",
		metric.WithDescription("Total number of wizard step advances"),
		metric.WithUnit("{advance}"),
	)
	if err != nil {
		return err
	}

	metrics.OnboardingSaveDuration, err = meter.Float64Histogram(
		"onboarding_save_duration_seconds",
		metric.WithDescription("Time spent persisting onboarding preferences in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.OnboardingSaveFallbackTotal, err = meter.Int64Counter(
		"onboarding_save_fallback_total",
		metric.WithDescription("Total number of saves that fell back to the legacy payload"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return err
	}

	metrics.OnboardingSaveFailedTotal, err = meter.Int64Counter(
		"onboarding_save_failed_total",
		metric.WithDescription("Total number of failed preference saves"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return err
	}

	metrics.OnboardingActiveSessions, err = meter.Int64UpDownCounter(
		"onboarding_active_sessions",
		metric.WithDescription("Number of currently open onboarding sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_seconds",
		metric.WithDescription("HTTP request handling time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordOnboardingCompleted 记录一次引导完成
func (m *OTelMetrics) RecordOnboardingCompleted(ctx context.Context) {
	m.OnboardingCompletedTotal.Add(ctx, 1)
}

// RecordStepAdvance 记录一次步骤前进
func (m *OTelMetrics) RecordStepAdvance(ctx context.Context, step string) {
	m.OnboardingStepAdvanceTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
	))
}

// RecordSaveResult 记录一次偏好保存
func (m *OTelMetrics) RecordSaveResult(ctx context.Context, status string, fallback bool, duration float64) {
	m.OnboardingSaveDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("status", status),
	))

	if fallback {
		m.OnboardingSaveFallbackTotal.Add(ctx, 1)
	}
	if status == "failed" {
		m.OnboardingSaveFailedTotal.Add(ctx, 1)
	}
}

// AddActiveSession 会话开启
func (m *OTelMetrics) AddActiveSession(ctx context.Context) {
	m.OnboardingActiveSessions.Add(ctx, 1)
}

// SubtractActiveSession 会话拆除
func (m *OTelMetrics) SubtractActiveSession(ctx context.Context) {
	m.OnboardingActiveSessions.Add(ctx, -1)
}
