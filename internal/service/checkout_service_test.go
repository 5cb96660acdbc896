package service

import (
	"errors"
	"testing"

	"github.com/tindahan-next/internal/constants"
	"github.com/tindahan-next/internal/models"
)

// flakyCartStorage 在 failSaves 打开后让所有写入失败，用于验证下单提交的原子性
type flakyCartStorage struct {
	lines     []models.CartLine
	failSaves bool
}

func (s *flakyCartStorage) Load(key string) ([]models.CartLine, error) {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *flakyCartStorage) Save(key string, lines []models.CartLine) error {
	if s.failSaves {
		return errors.New("disk full")
	}
	s.lines = make([]models.CartLine, len(lines))
	copy(s.lines, lines)
	return nil
}

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		Name:        "Juan Dela Cruz",
		PhoneNumber: "09170000000",
		Region:      "NCR",
		Province:    "Metro Manila",
		City:        "Quezon City",
		Barangay:    "Bagong Pag-asa",
		Street:      "12 Mindanao Ave",
	}
}

func seededCheckoutFixture(t *testing.T) (*CartService, *CheckoutService) {
	t.Helper()
	cart, _ := newTestCartService(t)
	for _, line := range []models.CartLine{
		{ID: 1, Name: "Phone", UnitPrice: models.NewMoneyFromFloat(1000), Quantity: 2},
		{ID: 2, Name: "Case", UnitPrice: models.NewMoneyFromFloat(500), Quantity: 1},
		{ID: 3, Name: "TV", UnitPrice: models.NewMoneyFromFloat(300), Quantity: 5},
	} {
		if err := cart.Add(models.CartLine{ID: line.ID, Name: line.Name, UnitPrice: line.UnitPrice}, line.Quantity); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	return cart, NewCheckoutService(cart)
}

func TestCheckoutBegin_RejectsEmptySelectionWithoutTransition(t *testing.T) {
	_, checkout := seededCheckoutFixture(t)

	if err := checkout.Begin(nil); err != ErrEmptySelection {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if checkout.State() != constants.CheckoutStateIdle {
		t.Fatalf("guard failure must not change state, got %s", checkout.State())
	}
}

func TestCheckoutSubmit_PaymentMethodCheckedBeforeShipping(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	if err := checkout.Begin(cart.Lines()[:1]); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	// 支付方式非法时优先报支付错误，即使收货信息也为空
	if err := checkout.Submit(models.ShippingDetails{}, "gcash"); err != ErrPaymentMethodInvalid {
		t.Fatalf("expected ErrPaymentMethodInvalid, got %v", err)
	}
	if checkout.State() != constants.CheckoutStateFormEntry {
		t.Fatalf("validation failure must not change state, got %s", checkout.State())
	}

	details := validShipping()
	details.City = ""
	details.Barangay = ""
	err := checkout.Submit(details, constants.PaymentMethodCOD)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "city" {
		t.Fatalf("expected first missing field city, got %q", vErr.Field)
	}
	if checkout.State() != constants.CheckoutStateFormEntry {
		t.Fatalf("validation failure must not change state, got %s", checkout.State())
	}
}

func TestCheckoutPlace_RemovesOnlySelectedLines(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	var selected []models.CartLine
	for _, line := range cart.Lines() {
		if line.ID == 1 || line.ID == 3 {
			selected = append(selected, line)
		}
	}
	if err := checkout.Begin(selected); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := checkout.Submit(validShipping(), constants.PaymentMethodCreditCard); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	summary, err := checkout.Place()
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if summary.ReferenceNo == "" {
		t.Fatalf("expected generated reference number")
	}
	if len(summary.CartItems) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(summary.CartItems))
	}
	if summary.TotalAmount().StringFixed(2) != "3500.00" {
		t.Fatalf("expected order total 3500.00, got %s", summary.TotalAmount().StringFixed(2))
	}

	remaining := cart.Lines()
	if len(remaining) != 1 || remaining[0].ID != 2 || remaining[0].Quantity != 1 {
		t.Fatalf("expected remaining cart [{id:2 qty:1}], got %+v", remaining)
	}
	if checkout.State() != constants.CheckoutStatePlaced {
		t.Fatalf("expected placed state, got %s", checkout.State())
	}
}

func TestCheckoutPlace_CommitFailureKeepsConfirming(t *testing.T) {
	storage := &flakyCartStorage{}
	cart := NewCartService(storage, constants.CartStorageKey)
	for _, line := range []models.CartLine{
		{ID: 1, Name: "Phone", Quantity: 2},
		{ID: 2, Name: "Case", Quantity: 1},
	} {
		if err := cart.Add(models.CartLine{ID: line.ID, Name: line.Name}, line.Quantity); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	checkout := NewCheckoutService(cart)
	if err := checkout.Begin(cart.Lines()[:1]); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := checkout.Submit(validShipping(), constants.PaymentMethodBankTransfer); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	storage.failSaves = true
	if _, err := checkout.Place(); err == nil {
		t.Fatalf("expected place to fail when cart persistence fails")
	}

	// 提交失败必须整体回退：状态保持 confirming，购物车与持久层均不变
	if checkout.State() != constants.CheckoutStateConfirming {
		t.Fatalf("expected state confirming after failed commit, got %s", checkout.State())
	}
	if _, err := checkout.Summary(); err != ErrOrderSummaryMissing {
		t.Fatalf("failed commit must not expose a summary, got %v", err)
	}
	if len(cart.Lines()) != 2 {
		t.Fatalf("cart must be untouched after failed commit, got %+v", cart.Lines())
	}
	if len(storage.lines) != 2 {
		t.Fatalf("persisted cart must be untouched after failed commit, got %+v", storage.lines)
	}

	// 故障恢复后同一确认态可以重试下单
	storage.failSaves = false
	if _, err := checkout.Place(); err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if checkout.State() != constants.CheckoutStatePlaced {
		t.Fatalf("expected placed state after retry, got %s", checkout.State())
	}
}

func TestCheckoutCancel_RestoresFormInputsVerbatim(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	selected := cart.Lines()[:2]
	if err := checkout.Begin(selected); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	details := validShipping()
	if err := checkout.Submit(details, constants.PaymentMethodPaypal); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := checkout.Place(); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if err := checkout.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if checkout.State() != constants.CheckoutStateFormEntry {
		t.Fatalf("expected form_entry after cancel, got %s", checkout.State())
	}

	form := checkout.Form()
	if form.ShippingDetails != details {
		t.Fatalf("cancel must restore shipping details verbatim, got %+v", form.ShippingDetails)
	}
	if form.PaymentMethod != constants.PaymentMethodPaypal {
		t.Fatalf("cancel must restore payment method, got %q", form.PaymentMethod)
	}
	if len(form.SelectedItems) != 2 || form.SelectedItems[0].ID != 1 || form.SelectedItems[1].ID != 2 {
		t.Fatalf("cancel must restore selected items, got %+v", form.SelectedItems)
	}
	if _, err := checkout.Summary(); err != ErrOrderSummaryMissing {
		t.Fatalf("cancelled order must drop its summary, got %v", err)
	}
}

func TestCheckoutComplete_ReturnsSummaryAndResets(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	if err := checkout.Begin(cart.Lines()[:1]); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := checkout.Submit(validShipping(), constants.PaymentMethodCOD); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	placed, err := checkout.Place()
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	final, err := checkout.Complete()
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if final.ReferenceNo != placed.ReferenceNo {
		t.Fatalf("expected matching reference, got %q vs %q", final.ReferenceNo, placed.ReferenceNo)
	}
	if checkout.State() != constants.CheckoutStateIdle {
		t.Fatalf("expected idle after complete, got %s", checkout.State())
	}
	if _, err := checkout.Summary(); err != ErrOrderSummaryMissing {
		t.Fatalf("completed flow must clear the summary, got %v", err)
	}
}

func TestCheckoutRevise_RoundTripKeepsInputs(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	if err := checkout.Begin(cart.Lines()[:1]); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	details := validShipping()
	if err := checkout.Submit(details, constants.PaymentMethodCreditCard); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := checkout.Revise(); err != nil {
		t.Fatalf("revise failed: %v", err)
	}
	if checkout.State() != constants.CheckoutStateFormEntry {
		t.Fatalf("expected form_entry after revise, got %s", checkout.State())
	}
	form := checkout.Form()
	if form.ShippingDetails != details || form.PaymentMethod != constants.PaymentMethodCreditCard {
		t.Fatalf("revise must keep submitted inputs, got %+v / %q", form.ShippingDetails, form.PaymentMethod)
	}
}

func TestCheckoutAbandon_LeavesCartIntact(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	if err := checkout.Begin(cart.Lines()); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := checkout.Abandon(); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if checkout.State() != constants.CheckoutStateIdle {
		t.Fatalf("expected idle after abandon, got %s", checkout.State())
	}
	if len(cart.Lines()) != 3 {
		t.Fatalf("abandon must not touch the cart, got %d lines", len(cart.Lines()))
	}
}

func TestCheckoutTransition_IllegalJumpsRejected(t *testing.T) {
	cart, checkout := seededCheckoutFixture(t)

	if _, err := checkout.Place(); err != ErrCheckoutStateInvalid {
		t.Fatalf("place from idle must fail, got %v", err)
	}
	if err := checkout.Submit(validShipping(), constants.PaymentMethodCOD); err != ErrCheckoutStateInvalid {
		t.Fatalf("submit from idle must fail, got %v", err)
	}
	if err := checkout.Cancel(); err != ErrCheckoutStateInvalid {
		t.Fatalf("cancel from idle must fail, got %v", err)
	}

	if err := checkout.Begin(cart.Lines()[:1]); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if _, err := checkout.Place(); err != ErrCheckoutStateInvalid {
		t.Fatalf("place from form_entry must fail, got %v", err)
	}
}
