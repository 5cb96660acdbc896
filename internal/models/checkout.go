package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan-next/internal/constants"
)

// ShippingDetails 收货信息（所有字段必填）
type ShippingDetails struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Region      string `json:"region"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Barangay    string `json:"barangay"`
	Street      string `json:"street"`
}

// OrderSummary 订单摘要快照（下单提交时构建，构建后不可变；
// 取消下单时用于原样恢复表单输入与选中行）
type OrderSummary struct {
	ReferenceNo     string          `json:"reference_no"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
	PaymentMethod   string          `json:"payment_method"`
	CartItems       []CartLine      `json:"cart_items"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// TotalAmount 订单摘要总金额（精确值，展示时再舍入）
func (s OrderSummary) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.CartItems {
		total = total.Add(item.UnitPrice.MulQuantity(item.Quantity))
	}
	return total
}

// ValidPaymentMethod 判断支付方式是否属于封闭集合
func ValidPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCreditCard,
		constants.PaymentMethodPaypal,
		constants.PaymentMethodBankTransfer,
		constants.PaymentMethodCOD:
		return true
	}
	return false
}

// MissingShippingField 返回首个缺失的收货信息字段名，空串表示全部已填。
// 校验顺序与字段名与前端表单保持一致。
func MissingShippingField(details ShippingDetails) string {
	checks := []struct {
		field string
		value string
	}{
		{constants.ShippingFieldName, details.Name},
		{constants.ShippingFieldPhoneNumber, details.PhoneNumber},
		{constants.ShippingFieldRegion, details.Region},
		{constants.ShippingFieldProvince, details.Province},
		{constants.ShippingFieldCity, details.City},
		{constants.ShippingFieldBarangay, details.Barangay},
		{constants.ShippingFieldStreet, details.Street},
	}
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			return check.field
		}
	}
	return ""
}
