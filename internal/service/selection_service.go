package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tindahan-next/internal/models"
)

// SelectionService 勾选服务：维护本次结账要购买的购物车行子集。
// 勾选集是会话内的派生状态，不持久化；不变量「勾选集 ⊆ 购物车 ID 集」
// 由上层调用方在每次删行后调用 Prune 维护。
type SelectionService struct {
	mu       sync.Mutex
	cart     *CartService
	selected map[uint]struct{}
}

// NewSelectionService 创建勾选服务
func NewSelectionService(cart *CartService) *SelectionService {
	return &SelectionService{
		cart:     cart,
		selected: make(map[uint]struct{}),
	}
}

// Toggle 切换单行勾选状态；不在购物车中的 ID 被忽略（不报错）
func (s *SelectionService) Toggle(id uint) {
	if !s.cart.Has(id) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// SelectAll 勾选当前购物车全部行
func (s *SelectionService) SelectAll() {
	ids := s.cart.IDs()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// DeselectAll 清空勾选
func (s *SelectionService) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[uint]struct{})
}

// SelectAllToggle 全选开关：未全选时全选，已全选时清空
func (s *SelectionService) SelectAllToggle() {
	ids := s.cart.IDs()
	s.mu.Lock()
	allSelected := len(ids) > 0
	for _, id := range ids {
		if _, ok := s.selected[id]; !ok {
			allSelected = false
			break
		}
	}
	s.mu.Unlock()

	if allSelected {
		s.DeselectAll()
		return
	}
	s.SelectAll()
}

// Prune 丢弃不在给定有效 ID 集中的勾选项（购物车删行后调用）
func (s *SelectionService) Prune(validIDs []uint) {
	valid := make(map[uint]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.selected {
		if _, ok := valid[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// IsSelected 判断某行是否被勾选
func (s *SelectionService) IsSelected(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs 返回勾选的 ID 集合（按购物车行顺序）
func (s *SelectionService) SelectedIDs() []uint {
	lines := s.cart.Lines()
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.selected))
	for _, line := range lines {
		if _, ok := s.selected[line.ID]; ok {
			ids = append(ids, line.ID)
		}
	}
	return ids
}

// SelectedLines 返回勾选的购物车行（按购物车行顺序）
func (s *SelectionService) SelectedLines() []models.CartLine {
	lines := s.cart.Lines()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, 0, len(s.selected))
	for _, line := range lines {
		if _, ok := s.selected[line.ID]; ok {
			out = append(out, line)
		}
	}
	return out
}

// TotalSelectedQuantity 勾选行数量合计
func (s *SelectionService) TotalSelectedQuantity() int {
	total := 0
	for _, line := range s.SelectedLines() {
		total += line.Quantity
	}
	return total
}

// TotalSelectedAmount 勾选行金额合计。
// 返回精确 decimal，两位小数舍入只发生在展示边界，避免累积舍入误差。
func (s *SelectionService) TotalSelectedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.SelectedLines() {
		total = total.Add(line.UnitPrice.MulQuantity(line.Quantity))
	}
	return total
}
