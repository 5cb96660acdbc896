package public

import (
	"strconv"

	"github.com/tindahan-next/internal/http/response"
	"github.com/tindahan-next/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity" binding:"required"`
}

// UpdateQuantityRequest 数量变更请求
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartLineView 购物车行响应
type CartLineView struct {
	ID                uint         `json:"id"`
	Name              string       `json:"name"`
	UnitPrice         models.Money `json:"unit_price"`
	Quantity          int          `json:"quantity"`
	AvailableQuantity *int         `json:"available_quantity"`
	Selected          bool         `json:"selected"`
}

// CartView 购物车响应（含勾选合计）
type CartView struct {
	Items                 []CartLineView `json:"items"`
	Count                 int            `json:"count"`
	TotalSelectedQuantity int            `json:"total_selected_quantity"`
	TotalSelectedAmount   string         `json:"total_selected_amount"`
}

// buildCartView 组装购物车响应，金额合计仅在此展示边界舍入到 2 位小数
func (h *Handler) buildCartView(lines []models.CartLine) CartView {
	items := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		items = append(items, CartLineView{
			ID:                line.ID,
			Name:              line.Name,
			UnitPrice:         line.UnitPrice,
			Quantity:          line.Quantity,
			AvailableQuantity: line.AvailableQuantity,
			Selected:          h.SelectionService.IsSelected(line.ID),
		})
	}
	return CartView{
		Items:                 items,
		Count:                 len(items),
		TotalSelectedQuantity: h.SelectionService.TotalSelectedQuantity(),
		TotalSelectedAmount:   h.SelectionService.TotalSelectedAmount().StringFixed(2),
	}
}

// GetCart 获取购物车。
// 未对账的购物车（数量正确、价格/库存可能过期）本身就是可展示状态，
// 对账由 ReconcileCart 另行触发，两阶段渲染互不阻塞。
func (h *Handler) GetCart(c *gin.Context) {
	lines := h.CartService.Lines()
	response.Success(c, h.buildCartView(lines))
}

// ReconcileCart 触发一次库存对账并返回注解后的购物车。
// 目录读取失败时购物车保持对账前数据可用，调用方下次进入购物车再重试。
func (h *Handler) ReconcileCart(c *gin.Context) {
	lines, err := h.StockService.Reconcile(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.cart_reconcile_failed")
		return
	}
	response.Success(c, h.buildCartView(lines))
}

// AddCartItem 加购：已存在则数量累加
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	candidate := models.CartLine{
		ID:        req.ProductID,
		Name:      req.Name,
		UnitPrice: req.Price,
	}
	if err := h.CartService.Add(candidate, req.Quantity); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"count": h.CartService.Count()})
}

// UpdateCartQuantity 设置购物车行数量（小于 1 为空操作，超库存静默钳制）
func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.SetQuantity(id, req.Quantity); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}

// DeleteCartItem 删行，并同步将该 ID 从勾选集中剔除
func (h *Handler) DeleteCartItem(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}
	if err := h.CartService.Remove(id); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	// 勾选集 ⊆ 购物车 ID 集：删行后由调用方收敛
	h.SelectionService.Prune(h.CartService.IDs())
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}

// GetCartCount 购物车角标计数（去重后的行数）
func (h *Handler) GetCartCount(c *gin.Context) {
	response.Success(c, gin.H{"count": h.CartService.Count()})
}

func parseLineID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_line_invalid", nil)
		return 0, false
	}
	return uint(id), true
}
