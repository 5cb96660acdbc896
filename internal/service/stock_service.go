package service

import (
	"context"
	"time"

	"github.com/tindahan-next/internal/cache"
	"github.com/tindahan-next/internal/catalog"
	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/models"
)

const (
	productListCacheKey = "catalog:products"
	productListCacheTTL = 30 * time.Second
)

// StockService 库存对账服务：用目录服务的权威数据刷新购物车行的
// 价格与可售库存。对账只做注解，从不增删行、从不修改数量；
// 目录读取可能与用户编辑并发进行，结果以补丁方式合入最新购物车。
type StockService struct {
	reader catalog.Reader
	cart   *CartService
}

// NewStockService 创建库存对账服务
func NewStockService(reader catalog.Reader, cart *CartService) *StockService {
	return &StockService{reader: reader, cart: cart}
}

// Reconcile 执行一次对账：单次目录读取 + 按 ID 补丁。
// 目录读取失败时返回 *catalog.FetchError，购物车继续使用对账前数据，
// 不做自动重试（由调用方在下次进入购物车时再触发）。
// 对同一目录快照重复调用是幂等的。
func (s *StockService) Reconcile(ctx context.Context) ([]models.CartLine, error) {
	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		logger.Warnw("stock_reconcile_fetch_failed", "error", err)
		return nil, err
	}
	if err := s.cart.ApplyCatalog(products); err != nil {
		return nil, err
	}
	lines := s.cart.Lines()
	logger.Debugw("stock_reconcile_applied",
		"products", len(products),
		"cart_lines", len(lines),
	)
	return lines, nil
}

// ListProducts 透传目录商品列表（店面商品页数据源）。
// 商品页走短 TTL 缓存；对账始终绕过缓存直接读目录。
func (s *StockService) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	var cached []models.CatalogProduct
	if ok, err := cache.GetJSON(ctx, productListCacheKey, &cached); err == nil && ok {
		return cached, nil
	}
	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, productListCacheKey, products, productListCacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "error", err)
	}
	return products, nil
}
