package services

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// ErrChatService 外部生成式对话服务调用失败或超时
var ErrChatService = errors.New("chat service unavailable")

// 提示词中携带的历史对话窗口上限
const chatHistoryWindow = 5

// 服务未配置时的兜底回复
const chatUnconfiguredReply = "I'm here to listen and support you. Sometimes it helps just to know someone cares about you."

// 生成失败时的兜底回复
const chatFallbackReply = "I'm here for you. Your feelings are valid, and it's okay to take things one step at a time."

const chatSystemPrompt = `You are a compassionate, professional AI therapist. You provide supportive, empathetic responses that help people process their emotions and find healthy coping strategies.

Guidelines for your response:
- Be warm, empathetic, and non-judgmental
- Acknowledge their feelings without minimizing them
- Offer gentle guidance or coping strategies when appropriate
- Ask thoughtful follow-up questions to encourage reflection
- Keep responses concise but meaningful (2-4 sentences)
- Use therapeutic techniques like validation, reframing, and mindfulness
- Avoid giving medical advice or diagnosing
- Focus on emotional support and self-care`

// ChatService 负责治疗师对话的提示词组装与生成调用
type ChatService struct {
	client  *GeminiClient
	timeout time.Duration
}

func NewChatService(client *GeminiClient) *ChatService {
	return &ChatService{
		client:  client,
		timeout: 30 * time.Second,
	}
}

// Configured 返回生成式服务是否可用
func (s *ChatService) Configured() bool {
	return s.client != nil
}

// GenerateReply 组装提示词并生成回复。失败时返回兜底文案和ErrChatService，
// 调用方可以继续把兜底文案返回给用户。
func (s *ChatService) GenerateReply(ctx context.Context, message, mood string, history []models.ChatHistoryItem) (string, error) {
	if !s.Configured() {
		return chatUnconfiguredReply, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(chatSystemPrompt)},
		},
	}

	if mood != "" {
		messages = append(messages, llms.MessageContent{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf("The person's current detected mood is: %s", mood))},
		})
	}

	// 历史窗口在服务端截断，保证提示词规模有界
	if historyContext := formatHistory(history); historyContext != "" {
		messages = append(messages, llms.MessageContent{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(historyContext)},
		})
	}

	messages = append(messages, llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(message)},
	})

	response, err := s.client.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
	)
	if err != nil {
		config.Logger.Errorw("生成聊天回复失败", "error", err)
		if ctx.Err() == context.DeadlineExceeded {
			return chatFallbackReply, fmt.Errorf("%w: 生成超时: %v", ErrChatService, err)
		}
		return chatFallbackReply, fmt.Errorf("%w: %v", ErrChatService, err)
	}

	if len(response.Choices) == 0 {
		return chatFallbackReply, fmt.Errorf("%w: 未生成有效内容", ErrChatService)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// formatHistory 截断并格式化历史对话
func formatHistory(history []models.ChatHistoryItem) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation:\n")
	for _, item := range history {
		sender := "Therapist"
		if item.Sender == models.SenderUser {
			sender = "Human"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", sender, item.Text))
	}
	return sb.String()
}
