package public

import (
	"errors"

	"github.com/tindahan-next/internal/catalog"
	"github.com/tindahan-next/internal/http/response"
	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c != nil {
		if value, ok := c.Get("request_id"); ok {
			if id, ok := value.(string); ok && id != "" {
				return logger.S().With("request_id", id)
			}
		}
	}
	return logger.S()
}

func respondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, key, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// respondServiceError 将业务错误映射为接口错误响应。
// 校验类错误均可由用户修正输入后重试；目录读取失败保留现有购物车数据。
func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.ErrorWithData(c, response.CodeBadRequest, "error.shipping_field_required", gin.H{
			"field": validationErr.Field,
		})
		return
	}
	var fetchErr *catalog.FetchError
	if errors.As(err, &fetchErr) {
		respondError(c, response.CodeUpstream, "error.catalog_unreachable", err)
		return
	}
	switch {
	case errors.Is(err, service.ErrCartLineInvalid):
		respondError(c, response.CodeBadRequest, "error.cart_line_invalid", nil)
	case errors.Is(err, service.ErrEmptySelection):
		respondError(c, response.CodeBadRequest, "error.selection_empty", nil)
	case errors.Is(err, service.ErrPaymentMethodInvalid):
		respondError(c, response.CodeBadRequest, "error.payment_method_invalid", nil)
	case errors.Is(err, service.ErrCheckoutStateInvalid):
		respondError(c, response.CodeConflict, "error.checkout_state_invalid", nil)
	case errors.Is(err, service.ErrOrderSummaryMissing):
		respondError(c, response.CodeNotFound, "error.order_summary_missing", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
