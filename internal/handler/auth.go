package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"SpendWise/internal/model/dto"
	"SpendWise/pkg/errors"
	"SpendWise/pkg/logger"
	"SpendWise/pkg/response"
	"SpendWise/pkg/token"
)

// RefreshToken 用 refresh token 换新的 token 对
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if req.RefreshToken == "" {
		response.ErrorWithDetails(ctx, c, errors.Unauthorized, map[string]interface{}{
			"reason": "refresh_token is required",
		})
		return
	}

	userID, err := token.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		logger.Logger.Warn("Refresh token validation failed", zap.Error(err))
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userID)
	if err != nil {
		logger.Logger.Error("Failed to generate token pair",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.TokenPairData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}
