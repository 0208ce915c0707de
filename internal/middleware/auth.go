package middleware

import (
	"context"
	"fmt"
	"strconv"

	"SpendWise/pkg/response"
	"SpendWise/pkg/token"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"
)

const (
	IdentityKey = token.IdentityKey
)

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

// initAuthMiddleware 基于 token 包的共享生成器构建 JWT 中间件,
// 保证 HTTP 层和 token 层使用同一份密钥和超时配置
func initAuthMiddleware() error {
	gen := token.GetGenerator()
	if gen == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	authMiddleware = &jwt.HertzJWTMiddleware{
		Realm:       "SpendWise API",
		Key:         gen.Key,
		Timeout:     gen.Timeout,
		MaxRefresh:  gen.MaxRefresh,
		IdentityKey: gen.IdentityKey,
		TimeFunc:    gen.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			switch v := claims[IdentityKey].(type) {
			case string:
				return v
			case float64:
				// 老 token 里 sub 是数字类型
				return strconv.FormatInt(int64(v), 10)
			default:
				return nil
			}
		},

		// 错误响应走统一的 ErrorResponse 信封
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, response.ErrorResponse{
				Error: response.ErrorDetail{
					Code:    "UNAUTHORIZED",
					Message: message,
				},
			})
		},

		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
	}

	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetUserID 从请求上下文中取认证后的用户标识
func GetUserID(ctx context.Context, c *app.RequestContext) (string, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return "", false
	}

	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
