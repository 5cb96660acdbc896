package provider

import (
	"strings"
	"time"

	"github.com/tindahan-next/internal/cache"
	"github.com/tindahan-next/internal/catalog"
	"github.com/tindahan-next/internal/config"
	"github.com/tindahan-next/internal/constants"
	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/models"
	"github.com/tindahan-next/internal/repository"
	"github.com/tindahan-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	CartStorage repository.CartStorage

	// Clients
	CatalogClient catalog.Reader

	// Services
	CartService      *service.CartService
	StockService     *service.StockService
	SelectionService *service.SelectionService
	CheckoutService  *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存（可选，仅 redis 存储后端依赖）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	storage := buildCartStorage(cfg)
	catalogClient := catalog.NewClient(
		cfg.Catalog.BaseURL,
		time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second,
	)

	cartService := service.NewCartService(storage, constants.CartStorageKey)
	stockService := service.NewStockService(catalogClient, cartService)
	selectionService := service.NewSelectionService(cartService)
	checkoutService := service.NewCheckoutService(cartService)

	return &Container{
		Config:           cfg,
		CartStorage:      storage,
		CatalogClient:    catalogClient,
		CartService:      cartService,
		StockService:     stockService,
		SelectionService: selectionService,
		CheckoutService:  checkoutService,
	}
}

// buildCartStorage 按配置选择购物车存储后端，redis 不可用时退回数据库
func buildCartStorage(cfg *config.Config) repository.CartStorage {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == constants.StorageBackendRedis {
		if client := cache.Client(); client != nil {
			return repository.NewRedisCartStorage(client, strings.TrimSpace(cfg.Redis.Prefix))
		}
		logger.Warnw("provider_redis_storage_unavailable", "fallback", constants.StorageBackendDatabase)
	}
	return repository.NewCartStorage(models.DB)
}
