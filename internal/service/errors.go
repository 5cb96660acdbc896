package service

import (
	"errors"
	"fmt"
)

// 服务层哨兵错误
var (
	ErrCartLineInvalid      = errors.New("无效的购物车行")
	ErrEmptySelection       = errors.New("未选择任何商品")
	ErrPaymentMethodInvalid = errors.New("无效的支付方式")
	ErrCheckoutStateInvalid = errors.New("当前结账状态不允许该操作")
	ErrOrderSummaryMissing  = errors.New("订单摘要不存在")
)

// ValidationError 表单校验错误（携带首个缺失字段名，用户修正后可重试）
type ValidationError struct {
	Field string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("缺少必填字段: %s", e.Field)
}

// NewValidationError 创建表单校验错误
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}
