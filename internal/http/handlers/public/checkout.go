package public

import (
	"github.com/tindahan-next/internal/http/response"
	"github.com/tindahan-next/internal/models"

	"github.com/gin-gonic/gin"
)

// BeginCheckoutRequest 进入结账请求。
// Items 为空时使用当前勾选集；「立即购买」场景由调用方直接传入单行。
type BeginCheckoutRequest struct {
	Items []models.CartLine `json:"items"`
}

// SubmitCheckoutRequest 结账表单提交请求
type SubmitCheckoutRequest struct {
	ShippingDetails models.ShippingDetails `json:"shipping_details"`
	PaymentMethod   string                 `json:"payment_method"`
}

// OrderSummaryView 订单摘要响应（含展示边界舍入的合计）
type OrderSummaryView struct {
	models.OrderSummary
	TotalAmount string `json:"total_amount"`
}

func buildSummaryView(summary *models.OrderSummary) OrderSummaryView {
	return OrderSummaryView{
		OrderSummary: *summary,
		TotalAmount:  summary.TotalAmount().StringFixed(2),
	}
}

// BeginCheckout 进入结账流程（空选择是守卫失败，不发生状态迁移）
func (h *Handler) BeginCheckout(c *gin.Context) {
	var req BeginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	selected := req.Items
	if len(selected) == 0 {
		selected = h.SelectionService.SelectedLines()
	}
	if err := h.CheckoutService.Begin(selected); err != nil {
		respondServiceError(c, err, "error.checkout_begin_failed")
		return
	}
	response.Success(c, h.CheckoutService.Form())
}

// GetCheckoutForm 获取当前表单态（取消下单后恢复的输入从这里读取）
func (h *Handler) GetCheckoutForm(c *gin.Context) {
	response.Success(c, gin.H{
		"state": h.CheckoutService.State(),
		"form":  h.CheckoutService.Form(),
	})
}

// SubmitCheckout 提交收货信息与支付方式（form_entry → confirming）
func (h *Handler) SubmitCheckout(c *gin.Context) {
	var req SubmitCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CheckoutService.Submit(req.ShippingDetails, req.PaymentMethod); err != nil {
		respondServiceError(c, err, "error.checkout_submit_failed")
		return
	}
	response.Success(c, gin.H{"state": h.CheckoutService.State()})
}

// ReviseCheckout 从确认态退回表单态
func (h *Handler) ReviseCheckout(c *gin.Context) {
	if err := h.CheckoutService.Revise(); err != nil {
		respondServiceError(c, err, "error.checkout_state_invalid")
		return
	}
	response.Success(c, h.CheckoutService.Form())
}

// PlaceOrder 提交订单（confirming → placed）：
// 构建订单摘要并从购物车移除选中行，随后收敛勾选集
func (h *Handler) PlaceOrder(c *gin.Context) {
	summary, err := h.CheckoutService.Place()
	if err != nil {
		respondServiceError(c, err, "error.checkout_place_failed")
		return
	}
	h.SelectionService.Prune(h.CartService.IDs())
	response.Success(c, buildSummaryView(summary))
}

// GetOrderSummary 获取已下单的订单摘要（收据页数据源）
func (h *Handler) GetOrderSummary(c *gin.Context) {
	summary, err := h.CheckoutService.Summary()
	if err != nil {
		respondServiceError(c, err, "error.order_summary_missing")
		return
	}
	response.Success(c, buildSummaryView(summary))
}

// CancelOrder 取消已下单的订单（placed → form_entry），
// 原样恢复收货信息、支付方式与选中行
func (h *Handler) CancelOrder(c *gin.Context) {
	if err := h.CheckoutService.Cancel(); err != nil {
		respondServiceError(c, err, "error.checkout_cancel_failed")
		return
	}
	response.Success(c, h.CheckoutService.Form())
}

// CompleteOrder 确认收据并结束流程（placed → idle）
func (h *Handler) CompleteOrder(c *gin.Context) {
	summary, err := h.CheckoutService.Complete()
	if err != nil {
		respondServiceError(c, err, "error.checkout_complete_failed")
		return
	}
	response.Success(c, buildSummaryView(summary))
}

// AbandonCheckout 放弃结账（form_entry → idle）
func (h *Handler) AbandonCheckout(c *gin.Context) {
	if err := h.CheckoutService.Abandon(); err != nil {
		respondServiceError(c, err, "error.checkout_state_invalid")
		return
	}
	response.Success(c, gin.H{"state": h.CheckoutService.State()})
}
