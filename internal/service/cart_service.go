package service

import (
	"sync"

	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/models"
	"github.com/tindahan-next/internal/repository"
)

// CartService 购物车服务：持久化购物车内容的唯一写入方。
// 购物车在任何可观察边界上都满足「每个商品 ID 至多一行」的不变量，
// 每次变更成功后整体重写持久化存储。
type CartService struct {
	mu      sync.Mutex
	storage repository.CartStorage
	key     string
	lines   []models.CartLine
	loaded  bool
}

// NewCartService 创建购物车服务
func NewCartService(storage repository.CartStorage, key string) *CartService {
	return &CartService{storage: storage, key: key}
}

// Load 从持久化存储加载购物车。
// 历史格式允许同一商品出现多行，加载时按 ID 合并（数量累加）后立即回写，
// 保证重复行不会再次出现；该修复静默完成，不视为错误。
func (s *CartService) Load() ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Load(s.key)
	if err != nil {
		return nil, err
	}
	merged, repaired := models.MergeCartLines(raw)
	if repaired {
		if err := s.storage.Save(s.key, merged); err != nil {
			return nil, err
		}
		logger.Infow("cart_duplicates_repaired",
			"key", s.key,
			"before", len(raw),
			"after", len(merged),
		)
	}
	s.lines = merged
	s.loaded = true
	return copyLines(s.lines), nil
}

// Lines 返回当前购物车行快照
func (s *CartService) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.lines)
}

// IDs 返回当前购物车行 ID 集合
func (s *CartService) IDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartLineIDs(s.lines)
}

// Count 返回购物车行数（去重后的商品数，用于角标展示）
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Has 判断商品是否在购物车中
func (s *CartService) Has(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Add 添加商品：已存在则数量累加，否则追加新行
func (s *CartService) Add(candidate models.CartLine, quantity int) error {
	if candidate.ID == 0 || quantity <= 0 {
		return ErrCartLineInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	next := copyLines(s.lines)
	if at := indexOfLines(next, candidate.ID); at >= 0 {
		next[at].Quantity += quantity
	} else {
		line := candidate
		line.Quantity = quantity
		next = append(next, line)
	}
	return s.commit(next)
}

// Remove 删除购物车行；不存在时为空操作（不报错）
func (s *CartService) Remove(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	at := s.indexOf(id)
	if at < 0 {
		return nil
	}
	next := make([]models.CartLine, 0, len(s.lines)-1)
	next = append(next, s.lines[:at]...)
	next = append(next, s.lines[at+1:]...)
	return s.commit(next)
}

// SetQuantity 设置购物车行数量。
// 小于 1 的数量为空操作；已知可售库存且超出时静默钳制到库存上限。
// 库存未知（尚未对账）时不钳制。
func (s *CartService) SetQuantity(id uint, quantity int) error {
	if quantity < 1 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	at := s.indexOf(id)
	if at < 0 {
		return nil
	}
	next := copyLines(s.lines)
	if avail := next[at].AvailableQuantity; avail != nil && quantity > *avail {
		quantity = *avail
	}
	if quantity < 1 {
		return nil
	}
	next[at].Quantity = quantity
	return s.commit(next)
}

// RemoveMany 批量删除购物车行（结账提交使用），只持久化一次。
// 按 ID 成员关系删除，与行顺序无关；不在购物车中的 ID 被忽略。
func (s *CartService) RemoveMany(ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	drop := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	next := make([]models.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		if _, ok := drop[line.ID]; ok {
			continue
		}
		next = append(next, line)
	}
	if len(next) == len(s.lines) {
		return nil
	}
	return s.commit(next)
}

// ApplyCatalog 将目录快照作为补丁套在最新本地状态之上：
// 按 ID 覆盖单价与可售库存，目录中不存在的商品库存记为 0（视为无货，
// 不自动删行，由用户显式移除）。数量永不修改，越界钳制推迟到下一次
// 数量变更时由 SetQuantity 执行。
func (s *CartService) ApplyCatalog(products []models.CatalogProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	index := make(map[uint]models.CatalogProduct, len(products))
	for _, product := range products {
		index[product.ID] = product
	}

	next := copyLines(s.lines)
	for i := range next {
		if product, ok := index[next[i].ID]; ok {
			available := product.Quantity
			if available < 0 {
				available = 0
			}
			next[i].UnitPrice = product.Price
			next[i].AvailableQuantity = &available
		} else {
			zero := 0
			next[i].AvailableQuantity = &zero
		}
	}
	return s.commit(next)
}

// commit 先持久化再提交内存状态，失败时购物车保持原样
func (s *CartService) commit(next []models.CartLine) error {
	if err := s.storage.Save(s.key, next); err != nil {
		logger.Errorw("cart_persist_failed", "key", s.key, "error", err)
		return err
	}
	s.lines = next
	return nil
}

// ensureLoaded 懒加载：未显式 Load 时首次变更前补齐
func (s *CartService) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	raw, err := s.storage.Load(s.key)
	if err != nil {
		return err
	}
	merged, _ := models.MergeCartLines(raw)
	s.lines = merged
	s.loaded = true
	return nil
}

func (s *CartService) indexOf(id uint) int {
	return indexOfLines(s.lines, id)
}

func indexOfLines(lines []models.CartLine, id uint) int {
	for i, line := range lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

func copyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
