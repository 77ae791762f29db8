package models

import "time"

// 消息发送方
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage 聊天记录模型，只追加不修改
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Sender    string    `gorm:"type:varchar(20);not null" json:"sender"` // user / assistant
	Mood      string    `gorm:"type:varchar(50)" json:"mood"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	SessionID string    `gorm:"type:varchar(100);index" json:"session_id"`
}

func (ChatMessage) TableName() string {
	return "chat_history"
}
