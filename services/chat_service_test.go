package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"NeuroMirrorGo/models"
)

// messageText 取出一条消息的文本内容
func messageText(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	require.NotEmpty(t, msg.Parts)
	text, ok := msg.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGenerateReply(t *testing.T) {
	fake := &fakeModel{response: "  That sounds really hard. What helped you cope before?  "}
	service := NewChatService(&GeminiClient{Model: fake})

	reply, err := service.GenerateReply(context.Background(), "I feel overwhelmed", "sad", nil)
	require.NoError(t, err)
	assert.Equal(t, "That sounds really hard. What helped you cope before?", reply)

	// 心情出现在提示词里
	var joined strings.Builder
	for _, msg := range fake.lastMessages {
		joined.WriteString(messageText(t, msg))
		joined.WriteString("\n")
	}
	assert.Contains(t, joined.String(), "current detected mood is: sad")
	assert.Contains(t, joined.String(), "I feel overwhelmed")
}

func TestGenerateReplyHistoryWindow(t *testing.T) {
	fake := &fakeModel{response: "ok"}
	service := NewChatService(&GeminiClient{Model: fake})

	// 超长历史在服务端被截断
	var history []models.ChatHistoryItem
	for i := 0; i < 12; i++ {
		history = append(history, models.ChatHistoryItem{
			Sender: models.SenderUser,
			Text:   fmt.Sprintf("turn-%d", i),
		})
	}

	_, err := service.GenerateReply(context.Background(), "hello", "", history)
	require.NoError(t, err)

	var historyText string
	for _, msg := range fake.lastMessages {
		if text := messageText(t, msg); strings.Contains(text, "Previous conversation") {
			historyText = text
		}
	}
	require.NotEmpty(t, historyText)

	// 只保留最后5条
	for i := 0; i < 7; i++ {
		assert.NotContains(t, historyText, fmt.Sprintf("turn-%d\n", i))
	}
	for i := 7; i < 12; i++ {
		assert.Contains(t, historyText, fmt.Sprintf("turn-%d", i))
	}
}

func TestGenerateReplyFallbackOnError(t *testing.T) {
	fake := &fakeModel{err: errors.New("quota exceeded")}
	service := NewChatService(&GeminiClient{Model: fake})

	reply, err := service.GenerateReply(context.Background(), "hello", "", nil)
	assert.ErrorIs(t, err, ErrChatService)
	assert.Equal(t, chatFallbackReply, reply)
}

func TestGenerateReplyTimeoutFallback(t *testing.T) {
	fake := &fakeModel{waitForCtx: true}
	service := &ChatService{
		client:  &GeminiClient{Model: fake},
		timeout: time.Millisecond,
	}

	reply, err := service.GenerateReply(context.Background(), "hello", "", nil)
	assert.ErrorIs(t, err, ErrChatService)
	assert.Equal(t, chatFallbackReply, reply)
}

func TestGenerateReplyUnconfigured(t *testing.T) {
	service := NewChatService(nil)
	assert.False(t, service.Configured())

	reply, err := service.GenerateReply(context.Background(), "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, chatUnconfiguredReply, reply)
}

func TestFormatHistorySenderLabels(t *testing.T) {
	text := formatHistory([]models.ChatHistoryItem{
		{Sender: models.SenderUser, Text: "hi"},
		{Sender: models.SenderAssistant, Text: "hello there"},
	})
	assert.Contains(t, text, "Human: hi")
	assert.Contains(t, text, "Therapist: hello there")

	assert.Empty(t, formatHistory(nil))
}
