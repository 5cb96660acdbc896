package public

import (
	"github.com/tindahan-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ToggleSelection 切换单行勾选状态（不在购物车中的 ID 被忽略）
func (h *Handler) ToggleSelection(c *gin.Context) {
	id, ok := parseLineID(c)
	if !ok {
		return
	}
	h.SelectionService.Toggle(id)
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}

// SelectAll 勾选全部购物车行
func (h *Handler) SelectAll(c *gin.Context) {
	h.SelectionService.SelectAll()
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}

// DeselectAll 清空勾选
func (h *Handler) DeselectAll(c *gin.Context) {
	h.SelectionService.DeselectAll()
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}

// SelectAllToggle 全选开关：未全选时全选，已全选时清空
func (h *Handler) SelectAllToggle(c *gin.Context) {
	h.SelectionService.SelectAllToggle()
	response.Success(c, h.buildCartView(h.CartService.Lines()))
}
