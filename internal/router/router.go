package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"SpendWise/internal/handler"
	"SpendWise/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 引导向导路由
	onboarding := v1.Group("/onboarding")
	onboarding.Use(middleware.AuthMiddleware()) // 需要鉴权的路由组
	{
		onboarding.GET("/state", handler.GetOnboardingState)
		onboarding.DELETE("/session", handler.DeleteOnboardingSession)

		// 写操作限流，防止脚本刷步骤
		mutate := onboarding.Group("", middleware.OnboardingMutationRateLimitMiddleware())
		{
			mutate.POST("/advance", handler.AdvanceOnboarding)
			mutate.POST("/retreat", handler.RetreatOnboarding)
			mutate.PUT("/selections", handler.UpdateSelections)
			mutate.POST("/categories/toggle", handler.ToggleCategory)
			mutate.POST("/goals/toggle", handler.ToggleGoal)
		}
	}
}
