package repository

import (
	"encoding/json"
	"errors"

	"github.com/tindahan-next/internal/models"

	"gorm.io/gorm"
)

// CartStorage 购物车持久化存储接口。
// 整个购物车序列化为固定键下的单条记录，每次保存整体覆盖。
type CartStorage interface {
	Load(key string) ([]models.CartLine, error)
	Save(key string, lines []models.CartLine) error
}

// GormCartStorage GORM 实现（键值行，类似设置表）
type GormCartStorage struct {
	db *gorm.DB
}

// NewCartStorage 创建数据库购物车存储
func NewCartStorage(db *gorm.DB) *GormCartStorage {
	return &GormCartStorage{db: db}
}

// Load 读取购物车内容，键不存在时返回空购物车
func (s *GormCartStorage) Load(key string) ([]models.CartLine, error) {
	var record models.CartRecord
	if err := s.db.Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.CartLine{}, nil
		}
		return nil, err
	}
	if record.ValueJSON == "" {
		return []models.CartLine{}, nil
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(record.ValueJSON), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Save 整体覆盖购物车内容（仅持久化 id/name/price/quantity）
func (s *GormCartStorage) Save(key string, lines []models.CartLine) error {
	payload, err := marshalCartLines(lines)
	if err != nil {
		return err
	}

	var record models.CartRecord
	err = s.db.Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.CartRecord{Key: key, ValueJSON: payload}
		return s.db.Create(&record).Error
	}
	if err != nil {
		return err
	}
	record.ValueJSON = payload
	return s.db.Save(&record).Error
}

// marshalCartLines 序列化持久化快照（剥离库存注解等瞬态字段）
func marshalCartLines(lines []models.CartLine) (string, error) {
	snapshots := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		snapshots = append(snapshots, line.Snapshot())
	}
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
