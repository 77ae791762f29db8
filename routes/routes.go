package routes

import (
	"NeuroMirrorGo/controllers"
	"NeuroMirrorGo/middleware"
	"NeuroMirrorGo/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部路由，返回检测控制器供关闭时排空后台写入
func RegisterRoutes(r *gin.Engine, classifier services.EmotionClassifier, chatService *services.ChatService, suggestionService *services.SuggestionService) *controllers.DetectController {
	detectController := controllers.NewDetectController(classifier, suggestionService)
	chatController := controllers.NewChatController(chatService)
	historyController := controllers.HistoryController{}
	sessionController := controllers.SessionController{}

	// 会话中间件：令牌可选，带令牌时校验并绑定会话ID
	r.Use(middleware.SessionAuth())

	r.POST("/detect", detectController.DetectMood)
	r.POST("/check-face", detectController.CheckFace)
	r.POST("/chat", chatController.SendMessage)
	r.POST("/session", sessionController.CreateSession)

	r.GET("/mood-history", historyController.GetMoodHistory)
	r.GET("/chat-history", historyController.GetChatHistory)
	r.GET("/user/mood-journey", historyController.GetMoodJourney)

	// 存活探针，不依赖任何外部组件
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "healthy",
			"timestamp":         time.Now().UTC(),
			"gemini_configured": chatService.Configured(),
		})
	})

	return detectController
}
