package public

import (
	"github.com/tindahan-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 透传目录商品列表（店面商品页数据源，只读）
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.StockService.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.catalog_unreachable")
		return
	}
	response.Success(c, gin.H{"products": products})
}
