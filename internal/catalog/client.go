package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tindahan-next/internal/models"
)

const defaultTimeout = 10 * time.Second

// FetchError 目录读取失败（可恢复：购物车继续使用对账前数据，由调用方择机重试）
type FetchError struct {
	Err error
}

// Error 实现 error 接口
func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed: %v", e.Err)
}

// Unwrap 返回底层错误
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reader 目录读取接口（只读，单次请求返回全量商品）
type Reader interface {
	ListProducts(ctx context.Context) ([]models.CatalogProduct, error)
}

// Client 目录服务 HTTP 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建目录客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts 拉取全量商品记录（id/price/quantity），失败时返回 *FetchError
func (c *Client) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	url := c.baseURL + "/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	var products []models.CatalogProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, &FetchError{Err: err}
	}
	return products, nil
}
