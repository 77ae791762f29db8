package controllers

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"NeuroMirrorGo/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ChatController 治疗师聊天控制器
type ChatController struct {
	chatService *services.ChatService
}

func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// SendMessage 处理聊天请求
func (cc *ChatController) SendMessage(ctx *gin.Context) {
	var request models.ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	sessionID := resolveSessionID(ctx, request.SessionID)
	mood := models.NormalizeEmotion(request.Mood)

	// 完整用户消息先落库，提示词截断只影响外部调用
	userMessage := models.ChatMessage{
		Message:   request.Message,
		Sender:    models.SenderUser,
		Mood:      mood,
		SessionID: sessionID,
	}
	if err := config.DB.Create(&userMessage).Error; err != nil {
		config.Logger.Errorw("用户消息写入失败", "error", err, "sessionID", sessionID)
	}

	reply, err := cc.chatService.GenerateReply(ctx.Request.Context(), request.Message, mood, request.ChatHistory)
	if err != nil {
		// 生成失败时reply已经是兜底文案，照常返回给用户
		config.Logger.Errorw("生成聊天回复失败，返回兜底文案", "error", err, "sessionID", sessionID)
	}

	assistantMessage := models.ChatMessage{
		Message:   reply,
		Sender:    models.SenderAssistant,
		Mood:      mood,
		SessionID: sessionID,
	}
	if err := config.DB.Create(&assistantMessage).Error; err != nil {
		config.Logger.Errorw("回复消息写入失败", "error", err, "sessionID", sessionID)
	}

	ctx.JSON(http.StatusOK, models.ChatResponse{
		Response:  reply,
		Timestamp: time.Now().UTC(),
	})
}
