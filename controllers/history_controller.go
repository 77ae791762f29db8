package controllers

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// 历史查询的默认值与服务端上限
const (
	defaultMoodHistoryLimit = 50
	maxMoodHistoryLimit     = 200
	defaultChatHistoryLimit = 100
	maxChatHistoryLimit     = 500
	defaultJourneyDays      = 7
	maxJourneyDays          = 90
)

// HistoryController 历史记录查询控制器
type HistoryController struct{}

// GetMoodHistory 获取情绪检测历史，最新在前
func (hc *HistoryController) GetMoodHistory(c *gin.Context) {
	sessionID := resolveSessionID(c, c.Query("session_id"))
	limit := parseLimit(c.Query("limit"), defaultMoodHistoryLimit, maxMoodHistoryLimit)

	var records []models.MoodRecord
	if err := config.DB.Where("session_id = ?", sessionID).
		Order("timestamp desc").
		Limit(limit).
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取情绪历史失败", "error", err, "sessionID", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取情绪历史失败"})
		return
	}

	history := make([]models.MoodHistoryItem, len(records))
	for i, record := range records {
		history[i] = models.MoodHistoryItem{
			Emotion:    record.Emotion,
			Confidence: record.Confidence,
			Timestamp:  record.Timestamp,
		}
	}

	c.JSON(http.StatusOK, models.MoodHistoryResponse{History: history})
}

// GetChatHistory 获取聊天历史。取最新的一段窗口，窗口内按时间升序返回
func (hc *HistoryController) GetChatHistory(c *gin.Context) {
	sessionID := resolveSessionID(c, c.Query("session_id"))
	limit := parseLimit(c.Query("limit"), defaultChatHistoryLimit, maxChatHistoryLimit)

	var records []models.ChatMessage
	if err := config.DB.Where("session_id = ?", sessionID).
		Order("timestamp desc").
		Limit(limit).
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取聊天历史失败", "error", err, "sessionID", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取聊天历史失败"})
		return
	}

	// 倒序查询结果翻转为升序
	history := make([]models.ChatHistoryRecord, len(records))
	for i, record := range records {
		history[len(records)-1-i] = models.ChatHistoryRecord{
			Message:   record.Message,
			Sender:    record.Sender,
			Mood:      record.Mood,
			Timestamp: record.Timestamp,
		}
	}

	c.JSON(http.StatusOK, models.ChatHistoryResponse{History: history})
}

// GetMoodJourney 读取时聚合最近N天的情绪数据：原始序列 + 各情绪出现次数
func (hc *HistoryController) GetMoodJourney(c *gin.Context) {
	sessionID := resolveSessionID(c, c.Query("session_id"))
	days := parseLimit(c.Query("days"), defaultJourneyDays, maxJourneyDays)
	since := time.Now().UTC().AddDate(0, 0, -days)

	var records []models.MoodRecord
	if err := config.DB.Where("session_id = ? AND timestamp >= ?", sessionID, since).
		Order("timestamp asc").
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取情绪旅程失败", "error", err, "sessionID", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取情绪旅程失败"})
		return
	}

	moodData := make([]models.MoodHistoryItem, len(records))
	frequency := make(map[string]int)
	for i, record := range records {
		moodData[i] = models.MoodHistoryItem{
			Emotion:    record.Emotion,
			Confidence: record.Confidence,
			Timestamp:  record.Timestamp,
		}
		frequency[record.Emotion]++
	}

	c.JSON(http.StatusOK, models.MoodJourneyResponse{
		MoodData:         moodData,
		EmotionFrequency: frequency,
	})
}

// parseLimit 解析数值参数，非法或超界时收敛到默认值/上限
func parseLimit(raw string, defaultValue, max int) int {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	if value > max {
		return max
	}
	return value
}

// resolveSessionID 返回有效的分区键。令牌中携带的会话ID优先于请求参数
func resolveSessionID(c *gin.Context, requested string) string {
	if bound, exists := c.Get("session_id"); exists {
		if sessionID, ok := bound.(string); ok && sessionID != "" {
			return sessionID
		}
	}
	return models.SessionOrDefault(requested)
}
