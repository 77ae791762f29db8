package utils

import (
	"github.com/google/uuid"
)

// GenerateID 生成新的会话ID
func GenerateID() string {
	return uuid.New().String()
}
