package models

// CartLine 购物车行（以商品 ID 为键）
// AvailableQuantity 为对账后的可售库存：nil 表示尚未对账（未知），
// 0 表示商品已下架或无货。该字段不持久化。
type CartLine struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	UnitPrice         Money  `json:"price"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity *int   `json:"available_quantity,omitempty"`
}

// Snapshot 返回可持久化/可传递的快照（剥离未持久化的库存注解）
func (l CartLine) Snapshot() CartLine {
	return CartLine{
		ID:        l.ID,
		Name:      l.Name,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
	}
}

// MergeCartLines 按商品 ID 合并重复行（数量累加，保持首次出现的顺序）。
// 历史持久化格式允许同一商品出现多行，加载时必须在对外暴露前修复。
// 第二个返回值表示是否发生过合并修复。
func MergeCartLines(lines []CartLine) ([]CartLine, bool) {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	repaired := false
	for _, line := range lines {
		if at, ok := index[line.ID]; ok {
			merged[at].Quantity += line.Quantity
			repaired = true
			continue
		}
		index[line.ID] = len(merged)
		merged = append(merged, line)
	}
	return merged, repaired
}

// CartLineIDs 提取购物车行 ID 集合
func CartLineIDs(lines []CartLine) []uint {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	return ids
}
