package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiClient 生成式对话模型客户端
type GeminiClient struct {
	Model llms.Model
}

// NewGeminiClient 创建Gemini客户端
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	g, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		Model: g,
	}, nil
}
