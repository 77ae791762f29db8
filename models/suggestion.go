package models

import "time"

// SuggestionRecord 建议记录模型，写入后不再读取，仅作审计
type SuggestionRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Emotion   string    `gorm:"type:varchar(50);not null" json:"emotion"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Tip       string    `gorm:"type:text;not null" json:"tip"`
	Activity  string    `gorm:"type:text" json:"activity"`
	Sound     string    `gorm:"type:varchar(100)" json:"sound"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (SuggestionRecord) TableName() string {
	return "suggestions"
}

// SuggestionBundle 返回给客户端的建议内容
type SuggestionBundle struct {
	Message  string `json:"message"`
	Tip      string `json:"tip"`
	Activity string `json:"activity"`
	Sound    string `json:"sound"`
}
