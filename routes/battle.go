package routes

import (
	"versehub/controllers"
	"versehub/websocket"

	"github.com/gin-gonic/gin"
)

// SetupBattleRoutes sets up the battle endpoints.
func SetupBattleRoutes(router *gin.Engine) {
	b := router.Group("/battle")
	{
		b.POST("/start", controllers.StartBattle)
		b.GET("/battle/:id", controllers.GetBattle)
		b.GET("/battle_stream/:id", controllers.StreamBattle)
		b.GET("/ws/:id", websocket.BattleSpectatorHandler)
	}
}
