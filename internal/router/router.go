package router

import (
	"github.com/tindahan-next/internal/config"
	publichandlers "github.com/tindahan-next/internal/http/handlers/public"
	"github.com/tindahan-next/internal/logger"
	"github.com/tindahan-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（只读透传）
		apiV1.GET("/products", publicHandler.GetProducts)

		// 购物车
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/count", publicHandler.GetCartCount)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:id/quantity", publicHandler.UpdateCartQuantity)
			cart.DELETE("/items/:id", publicHandler.DeleteCartItem)
			cart.POST("/reconcile", publicHandler.ReconcileCart)

			// 勾选（结账子集）
			cart.POST("/selection/:id/toggle", publicHandler.ToggleSelection)
			cart.POST("/selection/all", publicHandler.SelectAll)
			cart.DELETE("/selection", publicHandler.DeselectAll)
			cart.POST("/selection/all-toggle", publicHandler.SelectAllToggle)
		}

		// 结账流程
		checkout := apiV1.Group("/checkout")
		{
			checkout.POST("/begin", publicHandler.BeginCheckout)
			checkout.GET("/form", publicHandler.GetCheckoutForm)
			checkout.POST("/submit", publicHandler.SubmitCheckout)
			checkout.POST("/revise", publicHandler.ReviseCheckout)
			checkout.POST("/place", publicHandler.PlaceOrder)
			checkout.GET("/summary", publicHandler.GetOrderSummary)
			checkout.POST("/cancel", publicHandler.CancelOrder)
			checkout.POST("/complete", publicHandler.CompleteOrder)
			checkout.POST("/abandon", publicHandler.AbandonCheckout)
		}
	}

	return r
}
