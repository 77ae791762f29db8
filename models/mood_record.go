package models

import "time"

// MoodRecord 情绪检测记录模型，只追加不修改
type MoodRecord struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Emotion    string    `gorm:"type:varchar(50);not null" json:"emotion"`
	Confidence float64   `gorm:"not null" json:"confidence"` // 0.0 - 1.0
	Timestamp  time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	SessionID  string    `gorm:"type:varchar(100);index" json:"session_id"`
}

func (MoodRecord) TableName() string {
	return "mood_history"
}
