package controllers

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"NeuroMirrorGo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionController 会话签发控制器
type SessionController struct{}

// CreateSession 签发新的会话ID和绑定它的JWT。
// 会话ID本身只是分区键，不带令牌的请求同样被接受。
func (sc *SessionController) CreateSession(c *gin.Context) {
	sessionID := utils.GenerateID()

	token, err := utils.GenerateToken(sessionID)
	if err != nil {
		config.Logger.Errorw("会话令牌签发失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "会话创建失败"})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		SessionID: sessionID,
		Token:     token,
	})
}
