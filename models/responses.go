package models

import "time"

// DetectResponse 情绪检测响应结构体
type DetectResponse struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	Tip        string  `json:"tip"`
	Activity   string  `json:"activity"`
	Sound      string  `json:"sound"`
}

// CheckFaceResponse 人脸检查响应结构体
type CheckFaceResponse struct {
	FaceDetected bool `json:"face_detected"`
}

// ChatResponse 聊天响应结构体
type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// MoodHistoryItem 情绪历史响应条目
type MoodHistoryItem struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// MoodHistoryResponse 情绪历史响应结构体
type MoodHistoryResponse struct {
	History []MoodHistoryItem `json:"history"`
}

// ChatHistoryRecord 聊天历史响应条目
type ChatHistoryRecord struct {
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistoryResponse 聊天历史响应结构体
type ChatHistoryResponse struct {
	History []ChatHistoryRecord `json:"history"`
}

// MoodJourneyResponse 情绪旅程聚合响应结构体
type MoodJourneyResponse struct {
	MoodData         []MoodHistoryItem `json:"mood_data"`
	EmotionFrequency map[string]int    `json:"emotion_frequency"`
}

// SessionResponse 会话签发响应结构体
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}
