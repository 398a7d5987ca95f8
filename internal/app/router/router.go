// Package router はHTTPルートを構成します。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "inventory_backend/internal/feature/auth/transport/handler"
	inventoryhandler "inventory_backend/internal/feature/inventory/transport/handler"
	jwtmw "inventory_backend/internal/platform/jwt"
)

// NewRouter は全エンドポイントを登録したgin.Engineを返します。
func NewRouter(authHandler *authhandler.AuthHandler, inventoryHandler *inventoryhandler.InventoryHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	r.GET("/healthz", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired())
	{
		v1.POST("/inventory/detect", inventoryHandler.DetectItems)
		v1.POST("/inventory/scan", inventoryHandler.Scan)
		v1.GET("/inventory/reports", inventoryHandler.ListReports)
	}

	return r
}

func health(c *gin.Context) {
	// キャッシュされないように明示
	c.Header("Cache-Control", "no-store")
	c.JSON(200, gin.H{"status": "ok"})
}
