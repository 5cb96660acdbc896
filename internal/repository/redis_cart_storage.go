package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tindahan-next/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisCartKeyspace = "cart_storage"

// RedisCartStorage Redis 实现：购物车整体存放在带前缀的固定键下
type RedisCartStorage struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisCartStorage 创建 Redis 购物车存储
func NewRedisCartStorage(client *redis.Client, prefix string) *RedisCartStorage {
	return &RedisCartStorage{
		client:  client,
		prefix:  prefix,
		timeout: 5 * time.Second,
	}
}

// Load 读取购物车内容，键不存在时返回空购物车
func (s *RedisCartStorage) Load(key string) ([]models.CartLine, error) {
	if s.client == nil {
		return nil, errors.New("redis client is nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if err == redis.Nil {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Save 整体覆盖购物车内容（不过期，会话间保留）
func (s *RedisCartStorage) Save(key string, lines []models.CartLine) error {
	if s.client == nil {
		return errors.New("redis client is nil")
	}
	payload, err := marshalCartLines(lines)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.buildKey(key), payload, 0).Err()
}

func (s *RedisCartStorage) buildKey(key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, redisCartKeyspace, key)
}
