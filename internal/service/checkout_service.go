package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tindahan-next/internal/constants"
	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/models"
)

// checkoutTransitions 结账状态迁移合法性表
var checkoutTransitions = map[string]map[string]bool{
	constants.CheckoutStateIdle: {
		constants.CheckoutStateFormEntry: true,
	},
	constants.CheckoutStateFormEntry: {
		constants.CheckoutStateConfirming: true,
		constants.CheckoutStateIdle:       true,
		// 允许带新的选中行重新进入表单态
		constants.CheckoutStateFormEntry: true,
	},
	constants.CheckoutStateConfirming: {
		constants.CheckoutStatePlaced:    true,
		constants.CheckoutStateFormEntry: true,
	},
	constants.CheckoutStatePlaced: {
		// 取消下单：带着订单摘要中的输入回到表单态
		constants.CheckoutStateFormEntry: true,
		constants.CheckoutStateIdle:      true,
	},
}

// FormState 表单态载荷（取消下单后原样恢复的输入）
type FormState struct {
	ShippingDetails models.ShippingDetails `json:"shipping_details"`
	PaymentMethod   string                 `json:"payment_method"`
	SelectedItems   []models.CartLine      `json:"selected_items"`
}

// CheckoutService 结账编排服务：
// idle → form_entry → confirming → placed 的状态机，
// placed 可经取消回到 form_entry（原样恢复先前输入），或经确认回到 idle。
type CheckoutService struct {
	mu       sync.Mutex
	cart     *CartService
	state    string
	selected []models.CartLine
	shipping models.ShippingDetails
	payment  string
	summary  *models.OrderSummary
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(cart *CartService) *CheckoutService {
	return &CheckoutService{
		cart:  cart,
		state: constants.CheckoutStateIdle,
	}
}

// State 返回当前结账状态
func (s *CheckoutService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Form 返回当前表单态载荷
func (s *CheckoutService) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FormState{
		ShippingDetails: s.shipping,
		PaymentMethod:   s.payment,
		SelectedItems:   copyLines(s.selected),
	}
}

// Summary 返回已下单的订单摘要
func (s *CheckoutService) Summary() (*models.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil, ErrOrderSummaryMissing
	}
	snapshot := *s.summary
	return &snapshot, nil
}

// Begin 进入结账流程。
// 入口前置条件：选中行非空；空选择是守卫失败，不发生任何状态迁移。
func (s *CheckoutService) Begin(selected []models.CartLine) error {
	if len(selected) == 0 {
		return ErrEmptySelection
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(constants.CheckoutStateFormEntry); err != nil {
		return err
	}
	s.selected = copyLines(selected)
	s.shipping = models.ShippingDetails{}
	s.payment = ""
	s.summary = nil
	return nil
}

// Submit 提交表单（form_entry → confirming）。
// 要求支付方式属于封闭集合、收货信息各字段均非空；
// 按序报告首个缺失字段，校验失败不发生状态迁移。
func (s *CheckoutService) Submit(shipping models.ShippingDetails, paymentMethod string) error {
	if !models.ValidPaymentMethod(paymentMethod) {
		return ErrPaymentMethodInvalid
	}
	if field := models.MissingShippingField(shipping); field != "" {
		return NewValidationError(field)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(constants.CheckoutStateConfirming); err != nil {
		return err
	}
	s.shipping = shipping
	s.payment = paymentMethod
	return nil
}

// Revise 从确认态退回表单态修改输入（confirming → form_entry）
func (s *CheckoutService) Revise() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(constants.CheckoutStateFormEntry)
}

// Place 提交订单（confirming → placed）。
// 构建不可变订单摘要，并从购物车中一次性移除选中 ID；
// 移除失败时状态保持 confirming、摘要不外泄，对调用方表现为原子提交。
func (s *CheckoutService) Place() (*models.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != constants.CheckoutStateConfirming {
		return nil, ErrCheckoutStateInvalid
	}

	items := make([]models.CartLine, 0, len(s.selected))
	for _, line := range s.selected {
		items = append(items, line.Snapshot())
	}
	summary := &models.OrderSummary{
		ReferenceNo:     uuid.NewString(),
		ShippingDetails: s.shipping,
		PaymentMethod:   s.payment,
		CartItems:       items,
		PlacedAt:        time.Now(),
	}

	if err := s.cart.RemoveMany(models.CartLineIDs(items)); err != nil {
		logger.Errorw("checkout_commit_failed",
			"reference_no", summary.ReferenceNo,
			"error", err,
		)
		return nil, err
	}

	s.state = constants.CheckoutStatePlaced
	s.summary = summary
	logger.Infow("checkout_placed",
		"reference_no", summary.ReferenceNo,
		"items", len(items),
		"payment_method", summary.PaymentMethod,
	)
	snapshot := *summary
	return &snapshot, nil
}

// Cancel 取消已下单的订单（placed → form_entry）。
// 从被取消的订单摘要中原样恢复收货信息、支付方式与选中行，
// 而不是回到空白表单。
func (s *CheckoutService) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != constants.CheckoutStatePlaced {
		return ErrCheckoutStateInvalid
	}
	if s.summary == nil {
		return ErrOrderSummaryMissing
	}
	summary := s.summary
	s.state = constants.CheckoutStateFormEntry
	s.shipping = summary.ShippingDetails
	s.payment = summary.PaymentMethod
	s.selected = copyLines(summary.CartItems)
	s.summary = nil
	logger.Infow("checkout_cancelled", "reference_no", summary.ReferenceNo)
	return nil
}

// Complete 确认收据并结束流程（placed → idle），返回最终订单摘要
func (s *CheckoutService) Complete() (*models.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != constants.CheckoutStatePlaced {
		return nil, ErrCheckoutStateInvalid
	}
	if s.summary == nil {
		return nil, ErrOrderSummaryMissing
	}
	summary := *s.summary
	s.state = constants.CheckoutStateIdle
	s.selected = nil
	s.shipping = models.ShippingDetails{}
	s.payment = ""
	s.summary = nil
	return &summary, nil
}

// Abandon 放弃结账（form_entry → idle），购物车与勾选不受影响
func (s *CheckoutService) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(constants.CheckoutStateIdle); err != nil {
		return err
	}
	s.selected = nil
	s.shipping = models.ShippingDetails{}
	s.payment = ""
	s.summary = nil
	return nil
}

// transition 校验并执行状态迁移
func (s *CheckoutService) transition(next string) error {
	allowed, ok := checkoutTransitions[s.state]
	if !ok || !allowed[next] {
		return ErrCheckoutStateInvalid
	}
	s.state = next
	return nil
}
