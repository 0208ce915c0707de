package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"SpendWise/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "UNAUTHORIZED", "NOT_AUTHENTICATED":
		return http.StatusUnauthorized // 401
	case "RATE_LIMITED":
		return http.StatusTooManyRequests // 429
	case "INVALID_REQUEST", "INVALID_USER_ID",
		"ONBOARDING_STEP_BLOCKED", "ONBOARDING_STEP_INVALID",
		"SELECTION_INVALID", "CURRENCY_INVALID":
		return http.StatusBadRequest // 400
	case "ONBOARDING_SESSION_NOT_FOUND":
		return http.StatusNotFound // 404
	case "ONBOARDING_IN_PROGRESS":
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(errorToHTTPStatus(err), ErrorResponse{Error: toDetail(err, nil)})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	c.JSON(errorToHTTPStatus(err), ErrorResponse{Error: toDetail(err, details)})
}

func toDetail(err error, details map[string]interface{}) ErrorDetail {
	if def, ok := err.(errors.Definition); ok {
		return ErrorDetail{
			Code:    def.Code,
			Message: def.Message,
			Details: details,
		}
	}
	return ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
		Details: details,
	}
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
