package models

// DetectRequest 情绪检测请求结构体
type DetectRequest struct {
	Image     string `json:"image" binding:"required"` // base64编码，允许带data URL前缀
	SessionID string `json:"session_id"`
}

// CheckFaceRequest 人脸检查请求结构体（轮询用，不落库）
type CheckFaceRequest struct {
	Image string `json:"image" binding:"required"`
}

// ChatHistoryItem 客户端携带的历史对话条目
type ChatHistoryItem struct {
	Sender string `json:"sender"` // user / assistant
	Text   string `json:"text"`
}

// ChatRequest 聊天请求结构体
type ChatRequest struct {
	Message     string            `json:"message" binding:"required"`
	Mood        string            `json:"mood"`
	ChatHistory []ChatHistoryItem `json:"chat_history"`
	SessionID   string            `json:"session_id"`
}

// DefaultSessionID 未提供session_id时的默认分区键
const DefaultSessionID = "default"

// SessionOrDefault 返回有效的session_id
func SessionOrDefault(sessionID string) string {
	if sessionID == "" {
		return DefaultSessionID
	}
	return sessionID
}
