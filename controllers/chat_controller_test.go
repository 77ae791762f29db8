package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"NeuroMirrorGo/services"
)

func setupChatRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)

	controller := NewChatController(services.NewChatService(nil))
	r := gin.New()
	r.POST("/chat", controller.SendMessage)
	return r
}

func TestSendMessage(t *testing.T) {
	r := setupChatRouter(t)

	w := postJSON(r, "/chat", `{"message":"I feel overwhelmed today","mood":"sad","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Response)
	assert.False(t, response.Timestamp.IsZero())

	// 用户回合与助手回合各写入一条
	var messages []models.ChatMessage
	require.NoError(t, config.DB.Order("id asc").Find(&messages).Error)
	require.Len(t, messages, 2)

	assert.Equal(t, models.SenderUser, messages[0].Sender)
	assert.Equal(t, "I feel overwhelmed today", messages[0].Message)
	assert.Equal(t, "sad", messages[0].Mood)
	assert.Equal(t, "s1", messages[0].SessionID)

	assert.Equal(t, models.SenderAssistant, messages[1].Sender)
	assert.Equal(t, response.Response, messages[1].Message)
	assert.Equal(t, "s1", messages[1].SessionID)
}

func TestSendMessageNormalizesMood(t *testing.T) {
	r := setupChatRouter(t)

	// 客户端同义词在入库前归一
	w := postJSON(r, "/chat", `{"message":"hello","mood":"anxious"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var message models.ChatMessage
	require.NoError(t, config.DB.Where("sender = ?", models.SenderUser).First(&message).Error)
	assert.Equal(t, models.EmotionFear, message.Mood)
	assert.Equal(t, models.DefaultSessionID, message.SessionID)
}

func TestSendMessageLongHistoryStillPersistsFullMessage(t *testing.T) {
	r := setupChatRouter(t)

	// 历史超过窗口上限，消息本身仍完整入库
	body := `{"message":"the full user message","chat_history":[
		{"sender":"user","text":"1"},{"sender":"assistant","text":"2"},
		{"sender":"user","text":"3"},{"sender":"assistant","text":"4"},
		{"sender":"user","text":"5"},{"sender":"assistant","text":"6"},
		{"sender":"user","text":"7"},{"sender":"assistant","text":"8"}
	]}`
	w := postJSON(r, "/chat", body)
	require.Equal(t, http.StatusOK, w.Code)

	var message models.ChatMessage
	require.NoError(t, config.DB.Where("sender = ?", models.SenderUser).First(&message).Error)
	assert.Equal(t, "the full user message", message.Message)
}

func TestSendMessageNoMessage(t *testing.T) {
	r := setupChatRouter(t)

	w := postJSON(r, "/chat", `{"mood":"happy"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, countRows(t, &models.ChatMessage{}))
}
