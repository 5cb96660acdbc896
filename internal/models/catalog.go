package models

// CatalogProduct 目录服务返回的商品记录（只读，仅用于对账与商品列表）
type CatalogProduct struct {
	ID       uint   `json:"id"`
	Name     string `json:"name,omitempty"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}
