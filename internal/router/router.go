package router

import (
	"github.com/booster-finance/bes/internal/handler"
	"github.com/booster-finance/bes/internal/logic"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, reg *registry.Registry, collab logic.Collaborators) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "booster-escrow-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		projectHandler := handler.NewProjectHandler(db, reg, collab)
		escrowHandler := handler.NewEscrowHandler(db, reg)

		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)
			projects.DELETE("/:id", projectHandler.CancelProject)

			projects.GET("/:id/escrow", escrowHandler.GetEscrow)
			projects.GET("/:id/backers/:address", escrowHandler.GetBacker)
			projects.POST("/:id/contributions", escrowHandler.Contribute)
			projects.POST("/:id/refunds", escrowHandler.Refund)
			projects.POST("/:id/votes", escrowHandler.Vote)
			projects.POST("/:id/tiers", escrowHandler.AssignTiers)
			projects.POST("/:id/withdrawals", escrowHandler.Withdraw)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
