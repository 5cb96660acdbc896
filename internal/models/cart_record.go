package models

import "time"

// CartRecord 购物车持久化记录（固定键下的整体序列化内容）。
// 每次购物车变更都会整体覆盖 ValueJSON。
type CartRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	Key       string    `gorm:"uniqueIndex;not null" json:"key"` // 存储键
	ValueJSON string    `gorm:"type:text;not null" json:"value"` // 序列化的购物车行数组
	CreatedAt time.Time `json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (CartRecord) TableName() string {
	return "cart_records"
}
